package store

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/nerrad567/piplant-core/internal/component"
	"github.com/nerrad567/piplant-core/internal/plant"
)

// Memory keeps readings and light events in slices. Nothing survives a
// restart.
//
// Thread Safety: safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	readings []plant.Reading
	events   []plant.LightEvent
	closed   bool
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{}
}

// SaveReadings appends readings, assigning IDs where missing.
func (m *Memory) SaveReadings(_ context.Context, readings []plant.Reading) error {
	for _, r := range readings {
		if err := r.Validate(); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return plant.ErrStoreClosed
	}
	for _, r := range readings {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		m.readings = append(m.readings, r)
	}
	return nil
}

// Readings returns matching readings, newest first.
func (m *Memory) Readings(_ context.Context, q plant.Query) ([]plant.Reading, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, plant.ErrStoreClosed
	}

	var out []plant.Reading
	for _, r := range slices.Backward(m.readings) {
		if q.Sensor != "" && r.Sensor != q.Sensor {
			continue
		}
		if q.Type != "" && r.Type != q.Type {
			continue
		}
		if !q.Since.IsZero() && r.Time.Before(q.Since) {
			continue
		}
		out = append(out, r)
	}
	slices.SortStableFunc(out, func(a, b plant.Reading) int {
		return b.Time.Compare(a.Time)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// SaveLightEvent appends ev.
func (m *Memory) SaveLightEvent(_ context.Context, ev plant.LightEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return plant.ErrStoreClosed
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	m.events = append(m.events, ev)
	return nil
}

// LightEvents returns recorded events for light (all lights when empty),
// newest first.
func (m *Memory) LightEvents(_ context.Context, light string) ([]plant.LightEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []plant.LightEvent
	for _, ev := range slices.Backward(m.events) {
		if light == "" || ev.Light == light {
			out = append(out, ev)
		}
	}
	return out, nil
}

// Close marks the store closed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func newMemory(context.Context, component.Args) (any, error) {
	return NewMemory(), nil
}
