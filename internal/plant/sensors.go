package plant

import (
	"context"
	"sync"
	"time"
)

// SensorsByType returns the sensors of type t, in their original order.
func SensorsByType(sensors []Sensor, t SensorType) []Sensor {
	var out []Sensor
	for _, s := range sensors {
		if s.Type() == t {
			out = append(out, s)
		}
	}
	return out
}

// MotionDetected reports whether any reading is a motion reading with a
// non-zero value.
func MotionDetected(readings []Reading) bool {
	for _, r := range readings {
		if r.Quantity == QuantityMotion && r.Value != 0 {
			return true
		}
	}
	return false
}

// Polled wraps a sensor so that Read hits the underlying device at most once
// per interval; reads in between return the cached readings. A failed read
// is not cached.
//
// Thread Safety: safe for concurrent use. Concurrent callers during a stale
// period are serialised so the device is read once.
type Polled struct {
	Sensor
	interval time.Duration
	now      func() time.Time

	mu       sync.Mutex
	cached   []Reading
	readTime time.Time
}

// NewPolled wraps s with a read cache. An interval <= 0 disables caching.
func NewPolled(s Sensor, interval time.Duration) *Polled {
	return &Polled{Sensor: s, interval: interval, now: time.Now}
}

// Read returns cached readings while they are younger than the interval.
func (p *Polled) Read(ctx context.Context) ([]Reading, error) {
	if p.interval <= 0 {
		return p.Sensor.Read(ctx)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil && p.now().Sub(p.readTime) < p.interval {
		return append([]Reading(nil), p.cached...), nil
	}

	readings, err := p.Sensor.Read(ctx)
	if err != nil {
		return nil, err
	}
	p.cached = readings
	p.readTime = p.now()
	return append([]Reading(nil), readings...), nil
}
