package light

import (
	"context"
	"sync"
	"time"

	"github.com/nerrad567/piplant-core/internal/component"
	"github.com/nerrad567/piplant-core/internal/plant"
)

// Device is an in-memory bulb.
//
// Thread Safety: safe for concurrent use.
type Device struct {
	name string
	ip   string

	mu    sync.RWMutex
	power bool
	color plant.Color
}

// NewDevice returns a bulb that is off.
func NewDevice(name, ip string) *Device {
	return &Device{name: name, ip: ip}
}

// Name returns the bulb name.
func (d *Device) Name() string { return d.name }

// IP returns the configured address.
func (d *Device) IP() string { return d.ip }

// Power reports whether the bulb is on.
func (d *Device) Power(context.Context) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.power, nil
}

// SetPower switches the bulb; transitions complete instantly.
func (d *Device) SetPower(_ context.Context, on bool, _ time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.power = on
	return nil
}

// Color returns the current color.
func (d *Device) Color(context.Context) (plant.Color, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.color, nil
}

// SetColor sets the color.
func (d *Device) SetColor(_ context.Context, c plant.Color, _ time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.color = c
	return nil
}

// newMockDevice takes ip (required) and name (default the ip).
func newMockDevice(_ context.Context, args component.Args) (any, error) {
	args.Require("ip")
	ip := args.String("ip", "")
	name := args.String("name", ip)
	if err := args.Err(); err != nil {
		return nil, err
	}
	return NewDevice(name, ip), nil
}
