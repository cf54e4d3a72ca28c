package hygrometer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nerrad567/piplant-core/internal/component"
	"github.com/nerrad567/piplant-core/internal/plant"
)

const (
	// DefaultIIORoot is where the kernel exposes industrial I/O devices.
	DefaultIIORoot = "/sys/bus/iio/devices"

	defaultMinValue = 0.25
	defaultMaxValue = 0.8
	defaultADCBits  = 10
	maxADCChannel   = 7
)

// Capacitive reads a capacitive soil probe through an MCP3008 bound to the
// mcp320x IIO driver. The raw channel value is normalised against the ADC
// resolution before being mapped onto the probe's calibrated range.
type Capacitive struct {
	threshold
	channel  int
	minValue float64
	maxValue float64
	fullRaw  float64
	rawPath  string
}

// Channel returns the ADC channel the probe is wired to.
func (c *Capacitive) Channel() int { return c.channel }

// Value returns the normalised ADC reading in [0, 1].
func (c *Capacitive) Value() (float64, error) {
	data, err := os.ReadFile(c.rawPath)
	if err != nil {
		return 0, fmt.Errorf("%w: reading %s: %w", plant.ErrSensorUnavailable, c.rawPath, err)
	}
	raw, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parsing %s: %w", plant.ErrSensorUnavailable, c.rawPath, err)
	}
	return raw / c.fullRaw, nil
}

// Read samples the probe once.
func (c *Capacitive) Read(_ context.Context) ([]plant.Reading, error) {
	v, err := c.Value()
	if err != nil {
		return nil, err
	}
	return c.readings(MoisturePercentage(v, c.minValue, c.maxValue)), nil
}

// newCapacitive builds a Capacitive from kwargs:
//
//	name                  sensor name (default "hygrometer-<adc_channel>")
//	adc_channel           MCP3008 channel 0-7 (default 0)
//	min_value, max_value  calibrated wet/dry ADC fractions (default 0.25/0.8)
//	dry_value_percentage  dry level, percent or fraction (default 50)
//	iio_device            IIO device index (default 0)
//	iio_root              sysfs IIO directory (default /sys/bus/iio/devices)
//	adc_bits              ADC resolution (default 10)
//	poll_interval         cache reads for this long (default off)
func newCapacitive(_ context.Context, args component.Args) (any, error) {
	channel := args.Int("adc_channel", 0)
	name := args.String("name", fmt.Sprintf("hygrometer-%d", channel))
	minValue := args.Float("min_value", defaultMinValue)
	maxValue := args.Float("max_value", defaultMaxValue)
	dry := args.Float("dry_value_percentage", DefaultDryPercentage)
	device := args.Int("iio_device", 0)
	root := args.String("iio_root", DefaultIIORoot)
	bits := args.Int("adc_bits", defaultADCBits)
	poll := args.Duration("poll_interval", 0)
	if err := args.Err(); err != nil {
		return nil, err
	}

	if channel < 0 || channel > maxADCChannel {
		return nil, fmt.Errorf("hygrometer %s: adc_channel %d out of range [0, %d]", name, channel, maxADCChannel)
	}
	if minValue >= maxValue {
		return nil, fmt.Errorf("hygrometer %s: min_value %v must be below max_value %v", name, minValue, maxValue)
	}
	if bits < 1 || bits > 24 {
		return nil, fmt.Errorf("hygrometer %s: adc_bits %d out of range", name, bits)
	}
	dry, err := normaliseDry(dry)
	if err != nil {
		return nil, fmt.Errorf("hygrometer %s: %w", name, err)
	}

	rawPath := filepath.Join(root, fmt.Sprintf("iio:device%d", device), fmt.Sprintf("in_voltage%d_raw", channel))
	if _, err := os.Stat(rawPath); err != nil {
		return nil, fmt.Errorf("hygrometer %s: ADC channel not available: %w", name, err)
	}

	c := &Capacitive{
		threshold: threshold{name: name, dry: dry, now: time.Now},
		channel:   channel,
		minValue:  minValue,
		maxValue:  maxValue,
		fullRaw:   float64(int(1)<<bits - 1),
		rawPath:   rawPath,
	}
	if poll > 0 {
		return plant.NewPolled(c, poll), nil
	}
	return c, nil
}
