package environment

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/piplant-core/internal/component"
	"github.com/nerrad567/piplant-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/piplant-core/internal/plant"
)

const defaultMaxAge = 5 * time.Minute

// HubMessage is the JSON document a sensor hub publishes. Absent fields are
// not reported.
type HubMessage struct {
	Temperature *float64 `json:"temperature,omitempty"`
	Pressure    *float64 `json:"pressure,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
	Brightness  *float64 `json:"brightness,omitempty"`
	Motion      *bool    `json:"motion,omitempty"`
}

// SensorHub is an environment sensor fed by broker messages.
//
// Thread Safety: safe for concurrent use; messages arrive on the broker's
// goroutine while Read is called from the monitor.
type SensorHub struct {
	name   string
	topic  string
	maxAge time.Duration
	broker plant.Broker
	now    func() time.Time

	mu       sync.RWMutex
	last     HubMessage
	received time.Time
	rejected int
}

// NewSensorHub subscribes to topic on broker.
func NewSensorHub(name, topic string, maxAge time.Duration, broker plant.Broker) (*SensorHub, error) {
	h := &SensorHub{
		name:   name,
		topic:  topic,
		maxAge: maxAge,
		broker: broker,
		now:    time.Now,
	}
	if err := broker.Subscribe(topic, h.handle); err != nil {
		return nil, fmt.Errorf("sensorhub %s: subscribing to %s: %w", name, topic, err)
	}
	return h, nil
}

// Name returns the hub name.
func (h *SensorHub) Name() string { return h.name }

// Type returns plant.SensorTypeEnvironment.
func (h *SensorHub) Type() plant.SensorType { return plant.SensorTypeEnvironment }

// Topic returns the subscribed topic.
func (h *SensorHub) Topic() string { return h.topic }

// Rejected returns how many malformed messages were dropped.
func (h *SensorHub) Rejected() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rejected
}

func (h *SensorHub) handle(_ string, payload []byte) {
	var msg HubMessage
	err := json.Unmarshal(payload, &msg)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.rejected++
		return
	}
	h.last = msg
	h.received = h.now()
}

// Read reports the quantities of the latest message.
func (h *SensorHub) Read(context.Context) ([]plant.Reading, error) {
	h.mu.RLock()
	msg, received := h.last, h.received
	h.mu.RUnlock()

	if received.IsZero() {
		return nil, fmt.Errorf("%w: %s has not reported yet", plant.ErrSensorUnavailable, h.name)
	}
	if age := h.now().Sub(received); h.maxAge > 0 && age > h.maxAge {
		return nil, fmt.Errorf("%w: %s last reported %s ago", plant.ErrSensorUnavailable, h.name, age.Round(time.Second))
	}

	var out []plant.Reading
	add := func(quantity, unit string, v *float64) {
		if v != nil {
			out = append(out, h.reading(quantity, unit, *v, received))
		}
	}
	add(plant.QuantityTemperature, plant.UnitCelsius, msg.Temperature)
	add(plant.QuantityPressure, plant.UnitHectopascal, msg.Pressure)
	add(plant.QuantityHumidity, plant.UnitPercent, msg.Humidity)
	add(plant.QuantityBrightness, plant.UnitLux, msg.Brightness)
	if msg.Motion != nil {
		out = append(out, h.reading(plant.QuantityMotion, plant.UnitBoolean, plant.BoolValue(*msg.Motion), received))
	}
	return out, nil
}

func (h *SensorHub) reading(quantity, unit string, v float64, at time.Time) plant.Reading {
	return plant.Reading{Sensor: h.name, Type: plant.SensorTypeEnvironment, Quantity: quantity, Value: v, Unit: unit, Time: at}
}

// Close drops the broker subscription. The broker itself is shared and left
// open.
func (h *SensorHub) Close() error {
	return h.broker.Unsubscribe(h.topic)
}

// newSensorHub builds a SensorHub from kwargs:
//
//	broker   {package_ref: <messaging entry>} (required)
//	name     hub name (default "sensorhub")
//	topic    subscription topic (default piplant/hub/<name>/environment)
//	max_age  readings older than this are unavailable (default 5m, 0 disables)
func newSensorHub(_ context.Context, args component.Args) (any, error) {
	broker := component.InstanceOf[plant.Broker](args, "broker")
	name := args.String("name", "sensorhub")
	topic := args.String("topic", mqtt.Topics{}.EnvironmentHub(mqtt.TopicSegment(name)))
	maxAge := args.Duration("max_age", defaultMaxAge)
	if err := args.Err(); err != nil {
		return nil, err
	}
	return NewSensorHub(name, topic, maxAge, broker)
}
