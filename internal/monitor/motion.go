package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/piplant-core/internal/plant"
)

// Reasons recorded on light events.
const (
	ReasonMotion  = "motion"
	ReasonTimeout = "motion_timeout"
)

// MotionLights switches light groups to the on-motion scene while motion is
// reported and to the on-timeout scene once no motion has been seen for
// the timeout. A scene is only sent when it differs from the last one
// applied successfully.
//
// Before any motion has been seen the lights are considered timed out, so
// the first update applies the on-timeout scene.
//
// Thread Safety: Update is safe for concurrent use; updates are serialised.
type MotionLights struct {
	cfg    MotionConfig
	store  plant.Store
	sinks  []plant.LightEventSink
	logger Logger

	mu           sync.Mutex
	lastMotion   time.Time
	current      *Scene
	sensorByName map[string]bool
}

// NewMotionLights returns a manager for cfg. Light events are recorded in
// store when it is not nil and sent to every sink that reports light events.
func NewMotionLights(cfg MotionConfig, store plant.Store, sinks []plant.Sink, logger Logger) *MotionLights {
	if logger == nil {
		logger = noopLogger{}
	}
	names := make(map[string]bool, len(cfg.Sensors))
	for _, s := range cfg.Sensors {
		names[s.Name()] = true
	}
	var eventSinks []plant.LightEventSink
	for _, s := range sinks {
		if es, ok := s.(plant.LightEventSink); ok {
			eventSinks = append(eventSinks, es)
		}
	}
	return &MotionLights{
		cfg:          cfg,
		store:        store,
		sinks:        eventSinks,
		logger:       logger,
		sensorByName: names,
	}
}

// Sensors returns the motion sensors.
func (m *MotionLights) Sensors() []plant.Sensor {
	return m.cfg.Sensors
}

// Detected reports motion from the readings of the motion sensors only.
func (m *MotionLights) Detected(readings []plant.Reading) bool {
	own := make([]plant.Reading, 0, len(readings))
	for _, r := range readings {
		if m.sensorByName[r.Sensor] {
			own = append(own, r)
		}
	}
	return plant.MotionDetected(own)
}

// Update applies the scene for the current motion state.
//
// Parameters:
//   - ctx: Context for the light requests
//   - detected: Whether any motion sensor reports motion now
//   - now: Time of the poll
//
// Returns:
//   - error: Joined light failures; the scene is retried on the next update
func (m *MotionLights) Update(ctx context.Context, detected bool, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if detected {
		m.lastMotion = now
		return m.apply(ctx, m.cfg.OnMotion, ReasonMotion, now)
	}
	if !m.lastMotion.IsZero() && now.Sub(m.lastMotion) < m.cfg.Timeout {
		return nil
	}
	return m.apply(ctx, m.cfg.OnTimeout, ReasonTimeout, now)
}

func (m *MotionLights) apply(ctx context.Context, scene Scene, reason string, now time.Time) error {
	if m.current != nil && *m.current == scene {
		return nil
	}
	m.logger.Info("applying motion scene", "reason", reason, "lights", len(m.cfg.Lights),
		"brightness", scene.Color.Brightness, "transition", scene.Transition)

	var errs []error
	for _, light := range m.cfg.Lights {
		if err := light.SetColor(ctx, scene.Color, scene.Transition); err != nil {
			errs = append(errs, fmt.Errorf("light %s: %w", light.Name(), err))
			continue
		}
		m.record(ctx, plant.LightEvent{
			Light:  light.Name(),
			On:     scene.Color.Brightness > 0,
			Reason: reason,
			Time:   now,
		})
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	applied := scene
	m.current = &applied
	return nil
}

func (m *MotionLights) record(ctx context.Context, ev plant.LightEvent) {
	if m.store != nil {
		if err := m.store.SaveLightEvent(ctx, ev); err != nil {
			m.logger.Warn("recording light event failed", "light", ev.Light, "error", err)
		}
	}
	for _, s := range m.sinks {
		if err := s.PublishLightEvent(ctx, ev); err != nil {
			m.logger.Warn("publishing light event failed", "light", ev.Light, "error", err)
		}
	}
}
