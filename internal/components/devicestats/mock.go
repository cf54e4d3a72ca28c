package devicestats

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/nerrad567/piplant-core/internal/component"
	"github.com/nerrad567/piplant-core/internal/plant"
)

const (
	mockMemoryTotal = 8192.0
	mockDiskTotal   = 1024.0
)

// Mock reports random device statistics.
type Mock struct {
	name string
	now  func() time.Time
}

// Name returns the sensor name.
func (m *Mock) Name() string { return m.name }

// Type returns plant.SensorTypeDevice.
func (m *Mock) Type() plant.SensorType { return plant.SensorTypeDevice }

// Read returns one random reading per quantity.
//
//nolint:gosec // not security sensitive
func (m *Mock) Read(context.Context) ([]plant.Reading, error) {
	now := m.now()
	r := func(quantity, unit string, v float64) plant.Reading {
		return plant.Reading{Sensor: m.name, Type: plant.SensorTypeDevice, Quantity: quantity, Value: v, Unit: unit, Time: now}
	}
	cpuTemp := float64(rand.IntN(100))
	return []plant.Reading{
		r(plant.QuantityCPUTemperature, plant.UnitCelsius, cpuTemp),
		r(plant.QuantityCPUThrottle, plant.UnitBoolean, plant.BoolValue(cpuTemp >= DefaultThrottleTemperature)),
		r(plant.QuantityGPUTemperature, plant.UnitCelsius, float64(rand.IntN(100))),
		r(plant.QuantityCPUUsage, plant.UnitPercent, float64(rand.IntN(100))),
		r(plant.QuantityLoad1, "", rand.Float64()*4),
		r(plant.QuantityMemoryUsage, plant.UnitMegabytes, float64(rand.IntN(int(mockMemoryTotal)))),
		r(plant.QuantityMemoryTotal, plant.UnitMegabytes, mockMemoryTotal),
		r(plant.QuantityDiskUsage, plant.UnitMegabytes, float64(rand.IntN(int(mockDiskTotal)))),
		r(plant.QuantityDiskTotal, plant.UnitMegabytes, mockDiskTotal),
	}, nil
}

func newMock(_ context.Context, args component.Args) (any, error) {
	name := args.String("name", "MockDeviceStatistics")
	if err := args.Err(); err != nil {
		return nil, err
	}
	return &Mock{name: name, now: time.Now}, nil
}
