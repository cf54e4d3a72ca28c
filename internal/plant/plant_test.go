package plant

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

type fakeSensor struct {
	name  string
	typ   SensorType
	reads int
	err   error
}

func (f *fakeSensor) Name() string     { return f.name }
func (f *fakeSensor) Type() SensorType { return f.typ }

func (f *fakeSensor) Read(context.Context) ([]Reading, error) {
	f.reads++
	if f.err != nil {
		return nil, f.err
	}
	return []Reading{{Sensor: f.name, Type: f.typ, Quantity: QuantityMoisture, Value: float64(f.reads), Time: time.Unix(0, 0)}}, nil
}

func TestReading_Validate(t *testing.T) {
	valid := Reading{Sensor: "basil", Type: SensorTypeHygrometer, Quantity: QuantityMoisture, Value: 40, Time: time.Now()}

	tests := []struct {
		name    string
		mutate  func(r *Reading)
		wantErr bool
	}{
		{"valid", func(*Reading) {}, false},
		{"missing sensor", func(r *Reading) { r.Sensor = "" }, true},
		{"unknown type", func(r *Reading) { r.Type = "sonar" }, true},
		{"missing quantity", func(r *Reading) { r.Quantity = "" }, true},
		{"NaN", func(r *Reading) { r.Value = math.NaN() }, true},
		{"infinite", func(r *Reading) { r.Value = math.Inf(1) }, true},
		{"zero time", func(r *Reading) { r.Time = time.Time{} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			err := r.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidReading) {
				t.Errorf("error %v does not wrap ErrInvalidReading", err)
			}
		})
	}
}

func TestSensorsByType(t *testing.T) {
	a := &fakeSensor{name: "a", typ: SensorTypeHygrometer}
	b := &fakeSensor{name: "b", typ: SensorTypeDevice}
	c := &fakeSensor{name: "c", typ: SensorTypeHygrometer}

	got := SensorsByType([]Sensor{a, b, c}, SensorTypeHygrometer)
	if len(got) != 2 || got[0].Name() != "a" || got[1].Name() != "c" {
		t.Errorf("SensorsByType() = %v", got)
	}
	if got := SensorsByType([]Sensor{a, b}, SensorTypeEnvironment); len(got) != 0 {
		t.Errorf("SensorsByType(environment) = %v, want none", got)
	}
}

func TestMotionDetected(t *testing.T) {
	still := []Reading{{Quantity: QuantityMotion, Value: 0}, {Quantity: QuantityTemperature, Value: 21}}
	if MotionDetected(still) {
		t.Error("MotionDetected() = true with motion=0")
	}
	moving := append(still, Reading{Quantity: QuantityMotion, Value: 1})
	if !MotionDetected(moving) {
		t.Error("MotionDetected() = false with motion=1")
	}
	if MotionDetected([]Reading{{Quantity: QuantityBrightness, Value: 1}}) {
		t.Error("MotionDetected() counted a non-motion quantity")
	}
}

func TestPolled_CachesWithinInterval(t *testing.T) {
	inner := &fakeSensor{name: "soil", typ: SensorTypeHygrometer}
	p := NewPolled(inner, time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	ctx := context.Background()
	first, err := p.Read(ctx)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	now = now.Add(30 * time.Second)
	second, _ := p.Read(ctx)
	if inner.reads != 1 || second[0].Value != first[0].Value {
		t.Errorf("reads = %d, want cached value", inner.reads)
	}

	now = now.Add(30 * time.Second)
	third, _ := p.Read(ctx)
	if inner.reads != 2 || third[0].Value != 2 {
		t.Errorf("reads = %d value = %v, want fresh read after interval", inner.reads, third[0].Value)
	}

	if p.Name() != "soil" || p.Type() != SensorTypeHygrometer {
		t.Error("Polled does not expose the wrapped sensor identity")
	}
}

func TestPolled_ErrorsAreNotCached(t *testing.T) {
	inner := &fakeSensor{name: "hub", typ: SensorTypeEnvironment, err: ErrSensorUnavailable}
	p := NewPolled(inner, time.Hour)

	if _, err := p.Read(context.Background()); !errors.Is(err, ErrSensorUnavailable) {
		t.Fatalf("Read() error = %v", err)
	}
	inner.err = nil
	if _, err := p.Read(context.Background()); err != nil {
		t.Fatalf("Read() after recovery error = %v", err)
	}
	if inner.reads != 2 {
		t.Errorf("reads = %d, want 2", inner.reads)
	}
}

func TestPolled_ZeroIntervalPassesThrough(t *testing.T) {
	inner := &fakeSensor{name: "cpu", typ: SensorTypeDevice}
	p := NewPolled(inner, 0)
	for range 3 {
		if _, err := p.Read(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if inner.reads != 3 {
		t.Errorf("reads = %d, want 3", inner.reads)
	}
}
