package hygrometer

import (
	"fmt"
	"math"
	"time"

	"github.com/nerrad567/piplant-core/internal/plant"
)

// DefaultDryPercentage is the moisture level at or below which soil is dry.
const DefaultDryPercentage = 50.0

// threshold holds what every hygrometer shares: its name and dry level.
type threshold struct {
	name string
	dry  float64
	now  func() time.Time
}

// Name returns the sensor name.
func (t *threshold) Name() string { return t.name }

// Type returns plant.SensorTypeHygrometer.
func (t *threshold) Type() plant.SensorType { return plant.SensorTypeHygrometer }

// DryPercentage returns the configured dry level.
func (t *threshold) DryPercentage() float64 { return t.dry }

// IsDry reports whether moisture is at or below the dry level.
func (t *threshold) IsDry(moisture float64) bool { return moisture <= t.dry }

func (t *threshold) readings(moisture float64) []plant.Reading {
	now := t.now()
	return []plant.Reading{
		{Sensor: t.name, Type: plant.SensorTypeHygrometer, Quantity: plant.QuantityMoisture, Value: moisture, Unit: plant.UnitPercent, Time: now},
		{Sensor: t.name, Type: plant.SensorTypeHygrometer, Quantity: plant.QuantityDry, Value: plant.BoolValue(t.IsDry(moisture)), Unit: plant.UnitBoolean, Time: now},
	}
}

// normaliseDry accepts the dry level either as a percentage (50) or as a
// fraction (0.5). Values outside [0, 100] are rejected.
func normaliseDry(v float64) (float64, error) {
	if v < 0 || v > 100 {
		return 0, fmt.Errorf("dry_value_percentage %v out of range [0, 100]", v)
	}
	if v > 0 && v <= 1 {
		return v * 100, nil
	}
	return v, nil
}

// MoisturePercentage maps a normalised ADC value onto 0-100 % moisture.
//
// Capacitive probes read high when dry, so the scale is inverted: minValue
// is saturated soil (100 %) and maxValue is dry air (0 %). The input is
// clamped to [minValue, maxValue] and the result rounded to a whole percent.
func MoisturePercentage(value, minValue, maxValue float64) float64 {
	v := math.Max(minValue, math.Min(value, maxValue))
	return 100 - math.Round((v-minValue)*100/(maxValue-minValue))
}
