package monitor

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nerrad567/piplant-core/internal/plant"
)

// maxConcurrentReads bounds the sensor reads in flight during one poll.
const maxConcurrentReads = 8

// Logger is the logging interface used by the monitor.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Result describes one poll.
type Result struct {
	Time     time.Time
	Readings []plant.Reading
	// Failed maps a sensor, sink or "motion" to the error it returned.
	Failed map[string]error
}

// Status is a snapshot for health reporting.
type Status struct {
	Polls        int
	LastPoll     time.Time
	LastReadings int
	LastFailures map[string]string
}

// Monitor polls sensors and fans readings out to the store, sinks and
// motion lights.
//
// Thread Safety: Poll may be called concurrently with Run and Status, but
// polls themselves are serialised.
type Monitor struct {
	cfg    Config
	motion *MotionLights
	logger Logger
	now    func() time.Time

	pollMu sync.Mutex

	mu     sync.RWMutex
	status Status
}

// New returns a monitor for cfg. cfg is validated again so monitors built
// without Decode get the same checks.
func New(cfg Config, logger Logger) (*Monitor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = noopLogger{}
	}
	m := &Monitor{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
	if cfg.Motion != nil {
		m.motion = NewMotionLights(*cfg.Motion, cfg.Store, cfg.Sinks, logger)
	}
	return m, nil
}

// SensorsByType returns the configured sensors of type t.
func (m *Monitor) SensorsByType(t plant.SensorType) []plant.Sensor {
	return plant.SensorsByType(m.cfg.Sensors, t)
}

// PollInterval returns the interval Run polls at.
func (m *Monitor) PollInterval() time.Duration {
	return m.cfg.PollInterval
}

// Poll reads every sensor once and processes the readings.
//
// Motion sensors that are not also listed under sensors are read for the
// motion check but not stored.
//
// Parameters:
//   - ctx: Context for cancellation; cancelling aborts outstanding reads
//
// Returns:
//   - Result: Stored readings and per-component failures
//   - error: ErrStoreFailed, or the context error if ctx was cancelled
func (m *Monitor) Poll(ctx context.Context) (Result, error) {
	m.pollMu.Lock()
	defer m.pollMu.Unlock()

	res := Result{Time: m.now(), Failed: make(map[string]error)}

	sensors := m.cfg.Sensors
	var motionOnly []plant.Sensor
	if m.motion != nil {
		motionOnly = extraSensors(sensors, m.motion.Sensors())
	}
	all := append(append([]plant.Sensor(nil), sensors...), motionOnly...)

	batches, failed, err := m.readAll(ctx, all)
	if err != nil {
		return res, err
	}
	maps.Copy(res.Failed, failed)

	for _, b := range batches[:len(sensors)] {
		res.Readings = append(res.Readings, b...)
	}

	if len(res.Readings) > 0 {
		if err := m.cfg.Store.SaveReadings(ctx, res.Readings); err != nil {
			m.record(res)
			return res, fmt.Errorf("%w: %w", ErrStoreFailed, err)
		}
		for _, sink := range m.cfg.Sinks {
			if err := sink.Publish(ctx, res.Readings); err != nil {
				m.logger.Warn("telemetry sink failed", "sink", sink.Name(), "error", err)
				res.Failed[sink.Name()] = err
			}
		}
	}

	if m.motion != nil {
		var motionReadings []plant.Reading
		for _, b := range batches {
			motionReadings = append(motionReadings, b...)
		}
		if err := m.motion.Update(ctx, m.motion.Detected(motionReadings), res.Time); err != nil {
			m.logger.Error("motion lights update failed", "error", err)
			res.Failed["motion"] = err
		}
	}

	m.logger.Debug("poll complete", "readings", len(res.Readings), "failures", len(res.Failed))
	m.record(res)
	return res, nil
}

// readAll reads sensors concurrently. Per-sensor failures are returned in
// failed; only cancellation of ctx fails the whole read.
func (m *Monitor) readAll(ctx context.Context, sensors []plant.Sensor) ([][]plant.Reading, map[string]error, error) {
	batches := make([][]plant.Reading, len(sensors))
	errs := make([]error, len(sensors))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)
	for i, s := range sensors {
		g.Go(func() error {
			readings, err := s.Read(gctx)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				errs[i] = err
				return nil
			}
			batches[i] = readings
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	failed := make(map[string]error)
	for i, err := range errs {
		if err != nil {
			m.logger.Warn("sensor read failed", "sensor", sensors[i].Name(), "error", err)
			failed[sensors[i].Name()] = err
		}
	}
	return batches, failed, nil
}

// extraSensors returns the sensors in extra whose names are not in base.
func extraSensors(base, extra []plant.Sensor) []plant.Sensor {
	seen := make(map[string]bool, len(base))
	for _, s := range base {
		seen[s.Name()] = true
	}
	var out []plant.Sensor
	for _, s := range extra {
		if !seen[s.Name()] {
			seen[s.Name()] = true
			out = append(out, s)
		}
	}
	return out
}

func (m *Monitor) record(res Result) {
	failures := make(map[string]string, len(res.Failed))
	for name, err := range res.Failed {
		failures[name] = err.Error()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status.Polls++
	m.status.LastPoll = res.Time
	m.status.LastReadings = len(res.Readings)
	m.status.LastFailures = failures
}

// Status returns a snapshot of the last poll.
func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.status
	s.LastFailures = maps.Clone(s.LastFailures)
	return s
}

// Run polls immediately and then every PollInterval until ctx is
// cancelled. Poll errors are logged and do not stop the loop.
//
// Returns:
//   - error: nil once ctx is cancelled
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("monitor started", "sensors", len(m.cfg.Sensors), "sinks", len(m.cfg.Sinks),
		"poll_interval", m.cfg.PollInterval, "motion_lights", m.motion != nil)

	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := m.Poll(ctx); err != nil && ctx.Err() == nil {
			m.logger.Error("poll failed", "error", err)
		}
		select {
		case <-ctx.Done():
			m.logger.Info("monitor stopped")
			return nil
		case <-ticker.C:
		}
	}
}
