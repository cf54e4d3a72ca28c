package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nerrad567/piplant-core/internal/component"
	"github.com/nerrad567/piplant-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/piplant-core/internal/plant"
)

// MQTTPublisher publishes each reading as JSON on
// piplant/sensor/<type>/<sensor>/<quantity>.
type MQTTPublisher struct {
	name     string
	broker   plant.Broker
	retained bool
	topics   mqtt.Topics
}

// NewMQTTPublisher returns a sink publishing through broker. Retained
// messages let late subscribers see the latest value straight away.
func NewMQTTPublisher(name string, broker plant.Broker, retained bool) *MQTTPublisher {
	return &MQTTPublisher{name: name, broker: broker, retained: retained}
}

// Name returns the sink name.
func (p *MQTTPublisher) Name() string { return p.name }

// Publish sends every reading. It carries on past individual failures
// and returns them joined.
func (p *MQTTPublisher) Publish(ctx context.Context, readings []plant.Reading) error {
	var errs []error
	for _, r := range readings {
		payload, err := json.Marshal(r)
		if err != nil {
			errs = append(errs, fmt.Errorf("encoding %s/%s: %w", r.Sensor, r.Quantity, err))
			continue
		}
		topic := p.topics.SensorQuantity(string(r.Type), mqtt.TopicSegment(r.Sensor), mqtt.TopicSegment(r.Quantity))
		if err := p.broker.Publish(ctx, topic, payload, p.retained); err != nil {
			errs = append(errs, fmt.Errorf("publishing %s: %w", topic, err))
		}
	}
	return errors.Join(errs...)
}

// PublishLightEvent sends ev as JSON on piplant/light/<light>/state. It
// is always retained so the current state survives a subscriber restart.
func (p *MQTTPublisher) PublishLightEvent(ctx context.Context, ev plant.LightEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding light event %s: %w", ev.Light, err)
	}
	topic := p.topics.LightState(mqtt.TopicSegment(ev.Light))
	if err := p.broker.Publish(ctx, topic, payload, true); err != nil {
		return fmt.Errorf("publishing %s: %w", topic, err)
	}
	return nil
}

// newMQTTPublisher takes kwargs broker (package ref, required), name
// (default "mqtt") and retained (default on).
func newMQTTPublisher(_ context.Context, args component.Args) (any, error) {
	args.Require("broker")
	name := args.String("name", "mqtt")
	retained := args.Switch("retained", true)
	broker := component.InstanceOf[plant.Broker](args, "broker")
	if err := args.Err(); err != nil {
		return nil, err
	}
	return NewMQTTPublisher(name, broker, retained), nil
}
