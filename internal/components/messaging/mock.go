package messaging

import (
	"context"
	"strings"
	"sync"

	"github.com/nerrad567/piplant-core/internal/component"
	"github.com/nerrad567/piplant-core/internal/plant"
)

// Message is a publish recorded by Mock.
type Message struct {
	Topic    string
	Payload  []byte
	Retained bool
}

// Mock is an in-process broker. Publishes are delivered synchronously to
// every matching subscription and retained messages are replayed to new
// subscribers, as a broker would.
//
// Thread Safety: safe for concurrent use. Handlers run on the publishing
// goroutine without the lock held.
type Mock struct {
	mu        sync.Mutex
	subs      map[string]plant.MessageHandler
	retained  map[string][]byte
	published []Message
	closed    bool
}

// NewMock returns an empty broker.
func NewMock() *Mock {
	return &Mock{
		subs:     make(map[string]plant.MessageHandler),
		retained: make(map[string][]byte),
	}
}

// Publish delivers payload to matching subscribers.
func (m *Mock) Publish(_ context.Context, topic string, payload []byte, retained bool) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return plant.ErrBrokerClosed
	}
	body := append([]byte(nil), payload...)
	m.published = append(m.published, Message{Topic: topic, Payload: body, Retained: retained})
	if retained {
		m.retained[topic] = body
	}
	var handlers []plant.MessageHandler
	for filter, h := range m.subs {
		if TopicMatches(filter, topic) {
			handlers = append(handlers, h)
		}
	}
	m.mu.Unlock()

	for _, h := range handlers {
		h(topic, body)
	}
	return nil
}

// Subscribe registers handler for filter, replacing any previous one.
func (m *Mock) Subscribe(filter string, handler plant.MessageHandler) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return plant.ErrBrokerClosed
	}
	m.subs[filter] = handler
	replay := make(map[string][]byte)
	for topic, body := range m.retained {
		if TopicMatches(filter, topic) {
			replay[topic] = body
		}
	}
	m.mu.Unlock()

	for topic, body := range replay {
		handler(topic, body)
	}
	return nil
}

// Unsubscribe removes the handler for filter.
func (m *Mock) Unsubscribe(filter string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subs, filter)
	return nil
}

// Close rejects further use.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Published returns every message published so far.
func (m *Mock) Published() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.published...)
}

// TopicMatches reports whether topic matches an MQTT filter with + and #
// wildcards.
func TopicMatches(filter, topic string) bool {
	fs := strings.Split(filter, "/")
	ts := strings.Split(topic, "/")
	for i, f := range fs {
		switch {
		case f == "#":
			return true
		case i >= len(ts):
			return false
		case f != "+" && f != ts[i]:
			return false
		}
	}
	return len(fs) == len(ts)
}

func newMock(context.Context, component.Args) (any, error) {
	return NewMock(), nil
}
