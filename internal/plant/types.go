package plant

import (
	"context"
	"fmt"
	"math"
	"time"
)

// SensorType groups sensors by what they observe.
type SensorType string

// Sensor types.
const (
	SensorTypeHygrometer  SensorType = "hygrometer"
	SensorTypeEnvironment SensorType = "environment"
	SensorTypeDevice      SensorType = "device"
)

// Valid reports whether t is a known sensor type.
func (t SensorType) Valid() bool {
	switch t {
	case SensorTypeHygrometer, SensorTypeEnvironment, SensorTypeDevice:
		return true
	}
	return false
}

// Quantity names. A sensor may report several quantities per read.
const (
	QuantityMoisture = "moisture"
	QuantityDry      = "dry"

	QuantityTemperature = "temperature"
	QuantityPressure    = "pressure"
	QuantityHumidity    = "humidity"
	QuantityBrightness  = "brightness"
	QuantityMotion      = "motion"

	QuantityCPUTemperature = "cpu_temperature"
	QuantityGPUTemperature = "gpu_temperature"
	QuantityCPUThrottle    = "cpu_throttle"
	QuantityCPUUsage       = "cpu_usage"
	QuantityLoad1          = "load_1m"
	QuantityMemoryUsage    = "memory_usage"
	QuantityMemoryTotal    = "memory_total"
	QuantityDiskUsage      = "disk_usage"
	QuantityDiskTotal      = "disk_total"
)

// Units attached to readings.
const (
	UnitPercent     = "%"
	UnitCelsius     = "°C"
	UnitHectopascal = "hPa"
	UnitLux         = "lx"
	UnitMegabytes   = "MB"
	UnitBoolean     = "bool"
)

// Reading is a single measured quantity.
type Reading struct {
	ID       string     `json:"id,omitempty"`
	Sensor   string     `json:"sensor"`
	Type     SensorType `json:"type"`
	Quantity string     `json:"quantity"`
	Value    float64    `json:"value"`
	Unit     string     `json:"unit,omitempty"`
	Time     time.Time  `json:"time"`
}

// Validate checks that a reading can be stored and published.
func (r Reading) Validate() error {
	switch {
	case r.Sensor == "":
		return fmt.Errorf("%w: sensor name is required", ErrInvalidReading)
	case !r.Type.Valid():
		return fmt.Errorf("%w: unknown sensor type %q", ErrInvalidReading, r.Type)
	case r.Quantity == "":
		return fmt.Errorf("%w: quantity is required", ErrInvalidReading)
	case math.IsNaN(r.Value) || math.IsInf(r.Value, 0):
		return fmt.Errorf("%w: %s/%s value is not finite", ErrInvalidReading, r.Sensor, r.Quantity)
	case r.Time.IsZero():
		return fmt.Errorf("%w: %s/%s has no timestamp", ErrInvalidReading, r.Sensor, r.Quantity)
	}
	return nil
}

// BoolValue encodes a flag as a reading value.
func BoolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Sensor produces readings.
type Sensor interface {
	Name() string
	Type() SensorType
	Read(ctx context.Context) ([]Reading, error)
}

// Query selects stored readings. Zero fields do not filter.
type Query struct {
	Sensor string
	Type   SensorType
	Since  time.Time
	Limit  int
}

// LightEvent records a light being switched.
type LightEvent struct {
	ID     string    `json:"id,omitempty"`
	Light  string    `json:"light"`
	On     bool      `json:"on"`
	Reason string    `json:"reason,omitempty"`
	Time   time.Time `json:"time"`
}

// Store persists readings and light events.
type Store interface {
	SaveReadings(ctx context.Context, readings []Reading) error
	Readings(ctx context.Context, q Query) ([]Reading, error)
	SaveLightEvent(ctx context.Context, ev LightEvent) error
	Close() error
}

// Sink receives every batch of readings after it is stored.
type Sink interface {
	Name() string
	Publish(ctx context.Context, readings []Reading) error
}

// LightEventSink is implemented by sinks that also report light switches.
type LightEventSink interface {
	PublishLightEvent(ctx context.Context, ev LightEvent) error
}

// Color is a hue/saturation/brightness/kelvin light setting. Hue is in
// degrees [0, 360); saturation and brightness are fractions [0, 1].
type Color struct {
	Hue        float64 `json:"hue"`
	Saturation float64 `json:"saturation"`
	Brightness float64 `json:"brightness"`
	Kelvin     int     `json:"kelvin"`
}

// Light is a switchable light or group of lights. For groups Power reports
// whether any member is on.
type Light interface {
	Name() string
	Power(ctx context.Context) (bool, error)
	SetPower(ctx context.Context, on bool, transition time.Duration) error
	Color(ctx context.Context) (Color, error)
	SetColor(ctx context.Context, c Color, transition time.Duration) error
}

// MessageHandler receives broker messages.
type MessageHandler func(topic string, payload []byte)

// Broker is the publish/subscribe transport shared by components.
type Broker interface {
	Publish(ctx context.Context, topic string, payload []byte, retained bool) error
	Subscribe(topic string, handler MessageHandler) error
	Unsubscribe(topic string) error
	Close() error
}
