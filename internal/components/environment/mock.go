package environment

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/nerrad567/piplant-core/internal/component"
	"github.com/nerrad567/piplant-core/internal/plant"
)

// Value ranges of the BME280/TSL2591 parts the hub is built from.
const (
	mockTemperatureMin = -30.0
	mockTemperatureMax = 127.0
	mockPressureMin    = 300.0
	mockPressureMax    = 1100.0
	mockHumidityMax    = 100.0
	mockBrightnessMax  = 1800.0
)

// Mock reports random environment values on every read.
type Mock struct {
	name string
	now  func() time.Time
}

// Name returns the sensor name.
func (m *Mock) Name() string { return m.name }

// Type returns plant.SensorTypeEnvironment.
func (m *Mock) Type() plant.SensorType { return plant.SensorTypeEnvironment }

//nolint:gosec // not security sensitive
func between(lo, hi float64) float64 { return lo + rand.Float64()*(hi-lo) }

// Read returns one reading per hub quantity.
func (m *Mock) Read(context.Context) ([]plant.Reading, error) {
	now := m.now()
	r := func(quantity, unit string, v float64) plant.Reading {
		return plant.Reading{Sensor: m.name, Type: plant.SensorTypeEnvironment, Quantity: quantity, Value: v, Unit: unit, Time: now}
	}
	return []plant.Reading{
		r(plant.QuantityTemperature, plant.UnitCelsius, between(mockTemperatureMin, mockTemperatureMax)),
		r(plant.QuantityPressure, plant.UnitHectopascal, between(mockPressureMin, mockPressureMax)),
		r(plant.QuantityHumidity, plant.UnitPercent, between(0, mockHumidityMax)),
		r(plant.QuantityBrightness, plant.UnitLux, between(0, mockBrightnessMax)),
		r(plant.QuantityMotion, plant.UnitBoolean, plant.BoolValue(rand.IntN(2) == 1)), //nolint:gosec // not security sensitive
	}, nil
}

func newMock(_ context.Context, args component.Args) (any, error) {
	name := args.String("name", "mock-sensorhub")
	if err := args.Err(); err != nil {
		return nil, err
	}
	return &Mock{name: name, now: time.Now}, nil
}
