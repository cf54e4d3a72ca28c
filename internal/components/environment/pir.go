package environment

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nerrad567/piplant-core/internal/component"
	"github.com/nerrad567/piplant-core/internal/plant"
)

// DefaultGPIORoot is the sysfs GPIO class directory.
const DefaultGPIORoot = "/sys/class/gpio"

const defaultPIRPin = 4

// PIR is a passive infrared motion sensor read from an exported sysfs GPIO.
type PIR struct {
	name      string
	pin       int
	valuePath string
	now       func() time.Time
}

// Name returns the sensor name.
func (p *PIR) Name() string { return p.name }

// Type returns plant.SensorTypeEnvironment.
func (p *PIR) Type() plant.SensorType { return plant.SensorTypeEnvironment }

// Pin returns the BCM GPIO number.
func (p *PIR) Pin() int { return p.pin }

// Read reports motion as 1 while the pin is high.
func (p *PIR) Read(context.Context) ([]plant.Reading, error) {
	data, err := os.ReadFile(p.valuePath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", plant.ErrSensorUnavailable, p.valuePath, err)
	}
	high := strings.TrimSpace(string(data)) == "1"
	return []plant.Reading{{
		Sensor:   p.name,
		Type:     plant.SensorTypeEnvironment,
		Quantity: plant.QuantityMotion,
		Value:    plant.BoolValue(high),
		Unit:     plant.UnitBoolean,
		Time:     p.now(),
	}}, nil
}

// newPIR builds a PIR from kwargs: name (default "PIR"), pin (default 4),
// gpio_root (default /sys/class/gpio). The pin must already be exported as
// an input.
func newPIR(_ context.Context, args component.Args) (any, error) {
	name := args.String("name", "PIR")
	pin := args.Int("pin", defaultPIRPin)
	root := args.String("gpio_root", DefaultGPIORoot)
	if err := args.Err(); err != nil {
		return nil, err
	}
	if pin < 0 {
		return nil, fmt.Errorf("pir %s: invalid pin %d", name, pin)
	}

	valuePath := filepath.Join(root, fmt.Sprintf("gpio%d", pin), "value")
	if _, err := os.Stat(valuePath); err != nil {
		return nil, fmt.Errorf("pir %s: gpio%d not exported: %w", name, pin, err)
	}
	return &PIR{name: name, pin: pin, valuePath: valuePath, now: time.Now}, nil
}
