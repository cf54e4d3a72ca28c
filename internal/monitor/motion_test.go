package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nerrad567/piplant-core/internal/components/store"
	"github.com/nerrad567/piplant-core/internal/components/telemetry"
	"github.com/nerrad567/piplant-core/internal/plant"
)

func newMotion(lights ...plant.Light) (*MotionLights, *store.Memory) {
	db := store.NewMemory()
	cfg := MotionConfig{
		Sensors:   []plant.Sensor{pirSensor()},
		Lights:    lights,
		Timeout:   10 * time.Minute,
		OnMotion:  onScene,
		OnTimeout: offScene,
	}
	return NewMotionLights(cfg, db, nil, nil), db
}

func TestMotionLights_Sequence(t *testing.T) {
	porch := &fakeLight{name: "porch"}
	m, db := newMotion(porch)
	ctx := context.Background()
	t0 := pollTime

	steps := []struct {
		name     string
		detected bool
		at       time.Time
		wantSent int
	}{
		{"starts timed out", false, t0, 1},
		{"still off", false, t0.Add(time.Minute), 1},
		{"motion", true, t0.Add(2 * time.Minute), 2},
		{"motion again", true, t0.Add(3 * time.Minute), 2},
		{"within timeout", false, t0.Add(12 * time.Minute), 2},
		{"timeout reached", false, t0.Add(13 * time.Minute), 3},
		{"stays off", false, t0.Add(30 * time.Minute), 3},
	}
	for _, s := range steps {
		if err := m.Update(ctx, s.detected, s.at); err != nil {
			t.Fatalf("%s: Update() error = %v", s.name, err)
		}
		if got := len(porch.sent()); got != s.wantSent {
			t.Fatalf("%s: %d scenes sent, want %d", s.name, got, s.wantSent)
		}
	}

	sent := porch.sent()
	if sent[0] != offScene.Color || sent[1] != onScene.Color || sent[2] != offScene.Color {
		t.Errorf("scenes = %+v", sent)
	}

	events, err := db.LightEvents(ctx, "porch")
	if err != nil || len(events) != 3 {
		t.Fatalf("LightEvents() = %+v, %v", events, err)
	}
	if events[0].On || events[0].Reason != ReasonTimeout || !events[1].On {
		t.Errorf("events (newest first) = %+v", events)
	}
}

func TestMotionLights_PublishesLightEvents(t *testing.T) {
	porch := &fakeLight{name: "porch"}
	rec := telemetry.NewRecorder("rec")
	broken := telemetry.NewRecorder("broken")
	broken.Fail(errors.New("offline"))
	readingsOnly := &readingsSink{}

	cfg := MotionConfig{
		Sensors:   []plant.Sensor{pirSensor()},
		Lights:    []plant.Light{porch},
		Timeout:   10 * time.Minute,
		OnMotion:  onScene,
		OnTimeout: offScene,
	}
	m := NewMotionLights(cfg, nil, []plant.Sink{broken, readingsOnly, rec}, nil)

	if err := m.Update(context.Background(), true, pollTime); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	events := rec.LightEvents()
	if len(events) != 1 || events[0].Light != "porch" || !events[0].On || events[0].Reason != ReasonMotion {
		t.Errorf("LightEvents() = %+v", events)
	}
	if len(porch.sent()) != 1 {
		t.Error("a failing sink stopped the scene")
	}
}

// readingsSink handles readings only.
type readingsSink struct{}

func (readingsSink) Name() string { return "readings" }

func (readingsSink) Publish(context.Context, []plant.Reading) error { return nil }

func TestMotionLights_FailureIsRetried(t *testing.T) {
	porch := &fakeLight{name: "porch"}
	shed := &fakeLight{name: "shed", err: plant.ErrLightUnreachable}
	m, _ := newMotion(porch, shed)
	ctx := context.Background()

	err := m.Update(ctx, true, pollTime)
	if !errors.Is(err, plant.ErrLightUnreachable) {
		t.Fatalf("Update() error = %v, want ErrLightUnreachable", err)
	}

	shed.fail(nil)
	if err := m.Update(ctx, true, pollTime.Add(time.Minute)); err != nil {
		t.Fatalf("retry Update() error = %v", err)
	}
	if len(porch.sent()) != 2 || len(shed.sent()) != 1 {
		t.Errorf("porch sent %d, shed sent %d", len(porch.sent()), len(shed.sent()))
	}

	// Applied now; nothing more is sent while motion continues.
	if err := m.Update(ctx, true, pollTime.Add(2*time.Minute)); err != nil || len(porch.sent()) != 2 {
		t.Errorf("repeat Update() err = %v, porch sent %d", err, len(porch.sent()))
	}
}

func TestMotionLights_Detected(t *testing.T) {
	m, _ := newMotion(&fakeLight{name: "porch"})

	readings := []plant.Reading{
		{Sensor: "other", Quantity: plant.QuantityMotion, Value: 1},
		{Sensor: "pir", Quantity: plant.QuantityMotion, Value: 0},
	}
	if m.Detected(readings) {
		t.Error("motion from a sensor outside the motion set was counted")
	}
	readings[1].Value = 1
	if !m.Detected(readings) {
		t.Error("motion not detected")
	}
}
