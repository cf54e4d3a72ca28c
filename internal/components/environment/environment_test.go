package environment

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nerrad567/piplant-core/internal/component"
	"github.com/nerrad567/piplant-core/internal/components/messaging"
	"github.com/nerrad567/piplant-core/internal/plant"
)

func newTestHub(t *testing.T, kwargs map[string]any) (*SensorHub, *messaging.Mock) {
	t.Helper()
	broker := messaging.NewMock()
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	kwargs["broker"] = broker
	obj, err := newSensorHub(context.Background(), component.ArgsFrom(kwargs))
	if err != nil {
		t.Fatalf("newSensorHub() error = %v", err)
	}
	return obj.(*SensorHub), broker
}

func TestSensorHub_Read(t *testing.T) {
	hub, broker := newTestHub(t, map[string]any{"name": "greenhouse"})
	if hub.Topic() != "piplant/hub/greenhouse/environment" {
		t.Errorf("Topic() = %q", hub.Topic())
	}

	if _, err := hub.Read(context.Background()); !errors.Is(err, plant.ErrSensorUnavailable) {
		t.Fatalf("Read() before any message error = %v", err)
	}

	payload := []byte(`{"temperature":21.5,"pressure":1013.2,"humidity":48,"brightness":320,"motion":true}`)
	if err := broker.Publish(context.Background(), hub.Topic(), payload, false); err != nil {
		t.Fatal(err)
	}

	readings, err := hub.Read(context.Background())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	want := map[string]float64{
		plant.QuantityTemperature: 21.5,
		plant.QuantityPressure:    1013.2,
		plant.QuantityHumidity:    48,
		plant.QuantityBrightness:  320,
		plant.QuantityMotion:      1,
	}
	if len(readings) != len(want) {
		t.Fatalf("got %d readings, want %d", len(readings), len(want))
	}
	for _, r := range readings {
		if r.Value != want[r.Quantity] {
			t.Errorf("%s = %v, want %v", r.Quantity, r.Value, want[r.Quantity])
		}
		if err := r.Validate(); err != nil {
			t.Errorf("reading invalid: %v", err)
		}
	}
	if !plant.MotionDetected(readings) {
		t.Error("MotionDetected() = false")
	}
}

func TestSensorHub_PartialAndMalformed(t *testing.T) {
	hub, broker := newTestHub(t, map[string]any{"topic": "garden/hub"})
	ctx := context.Background()

	_ = broker.Publish(ctx, "garden/hub", []byte(`{"temperature":12}`), false)
	_ = broker.Publish(ctx, "garden/hub", []byte(`not json`), false)

	readings, err := hub.Read(ctx)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(readings) != 1 || readings[0].Quantity != plant.QuantityTemperature {
		t.Errorf("readings = %+v, want only temperature", readings)
	}
	if hub.Rejected() != 1 {
		t.Errorf("Rejected() = %d, want 1", hub.Rejected())
	}
}

func TestSensorHub_Stale(t *testing.T) {
	hub, broker := newTestHub(t, map[string]any{"max_age": "1m"})
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	hub.now = func() time.Time { return now }

	_ = broker.Publish(context.Background(), hub.Topic(), []byte(`{"humidity":60}`), false)
	if _, err := hub.Read(context.Background()); err != nil {
		t.Fatalf("fresh Read() error = %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := hub.Read(context.Background()); !errors.Is(err, plant.ErrSensorUnavailable) {
		t.Errorf("stale Read() error = %v, want ErrSensorUnavailable", err)
	}
}

func TestSensorHub_Close(t *testing.T) {
	hub, broker := newTestHub(t, nil)
	if err := hub.Close(); err != nil {
		t.Fatal(err)
	}
	_ = broker.Publish(context.Background(), hub.Topic(), []byte(`{"humidity":60}`), false)
	if _, err := hub.Read(context.Background()); err == nil {
		t.Error("hub received a message after Close")
	}
}

func TestNewSensorHub_RequiresBroker(t *testing.T) {
	_, err := newSensorHub(context.Background(), component.ArgsFrom(map[string]any{"name": "hub"}))
	if !errors.Is(err, component.ErrInvalidArgument) {
		t.Errorf("newSensorHub() error = %v, want ErrInvalidArgument", err)
	}

	_, err = newSensorHub(context.Background(), component.ArgsFrom(map[string]any{"broker": "not-a-broker"}))
	if err == nil {
		t.Error("newSensorHub() accepted a string broker")
	}
}

func TestPIR(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "gpio17")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatal(err)
	}
	value := filepath.Join(dir, "value")
	if err := os.WriteFile(value, []byte("1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	obj, err := newPIR(context.Background(), component.ArgsFrom(map[string]any{"pin": 17, "gpio_root": root}))
	if err != nil {
		t.Fatalf("newPIR() error = %v", err)
	}
	pir := obj.(*PIR)
	if pir.Name() != "PIR" || pir.Pin() != 17 {
		t.Errorf("identity = %s/%d", pir.Name(), pir.Pin())
	}

	readings, err := pir.Read(context.Background())
	if err != nil || !plant.MotionDetected(readings) {
		t.Fatalf("Read() = %+v, %v; want motion", readings, err)
	}

	if err := os.WriteFile(value, []byte("0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	readings, _ = pir.Read(context.Background())
	if plant.MotionDetected(readings) {
		t.Error("motion reported with pin low")
	}

	if err := os.Remove(value); err != nil {
		t.Fatal(err)
	}
	if _, err := pir.Read(context.Background()); !errors.Is(err, plant.ErrSensorUnavailable) {
		t.Errorf("Read() on missing pin error = %v", err)
	}
}

func TestNewPIR_NotExported(t *testing.T) {
	if _, err := newPIR(context.Background(), component.ArgsFrom(map[string]any{"gpio_root": t.TempDir()})); err == nil {
		t.Error("newPIR() expected error for unexported pin")
	}
}

func TestMock(t *testing.T) {
	obj, err := newMock(context.Background(), component.ArgsFrom(nil))
	if err != nil {
		t.Fatal(err)
	}
	m := obj.(*Mock)
	if m.Name() != "mock-sensorhub" {
		t.Errorf("Name() = %q", m.Name())
	}

	bounds := map[string][2]float64{
		plant.QuantityTemperature: {mockTemperatureMin, mockTemperatureMax},
		plant.QuantityPressure:    {mockPressureMin, mockPressureMax},
		plant.QuantityHumidity:    {0, mockHumidityMax},
		plant.QuantityBrightness:  {0, mockBrightnessMax},
		plant.QuantityMotion:      {0, 1},
	}
	for range 10 {
		readings, err := m.Read(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if len(readings) != len(bounds) {
			t.Fatalf("got %d readings", len(readings))
		}
		for _, r := range readings {
			b := bounds[r.Quantity]
			if r.Value < b[0] || r.Value > b[1] {
				t.Errorf("%s = %v outside %v", r.Quantity, r.Value, b)
			}
		}
	}
}

func TestRegistered(t *testing.T) {
	for _, p := range []string{ModuleSensorHub, ModulePIR, ModuleMock} {
		found := false
		for _, registered := range component.Default.Paths() {
			if registered == p {
				found = true
			}
		}
		if !found {
			t.Errorf("%s not registered", p)
		}
	}
}
