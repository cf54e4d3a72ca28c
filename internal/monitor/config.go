package monitor

import (
	"fmt"
	"time"

	"github.com/nerrad567/piplant-core/internal/component"
	"github.com/nerrad567/piplant-core/internal/pathvalue"
	"github.com/nerrad567/piplant-core/internal/plant"
)

// Defaults for the app document.
const (
	DefaultPollInterval  = time.Minute
	DefaultMotionTimeout = 10 * time.Second
	maxKelvin            = 9000
)

// Config is the decoded app document.
type Config struct {
	Sensors      []plant.Sensor
	Store        plant.Store
	Sinks        []plant.Sink
	PollInterval time.Duration
	// Motion is nil when no motion lights are configured.
	Motion *MotionConfig
}

// Scene is a light setting applied by the motion manager.
type Scene struct {
	Color      plant.Color
	Transition time.Duration
}

// MotionConfig describes the motion-triggered lights.
type MotionConfig struct {
	// Sensors report motion; defaults to the environment sensors.
	Sensors   []plant.Sensor
	Lights    []plant.Light
	Timeout   time.Duration
	OnMotion  Scene
	OnTimeout Scene
}

// Decode turns an embedded app tree into a Config. pollInterval is used
// when the document does not set poll_interval.
//
// Parameters:
//   - tree: App document with references already replaced by instances
//   - pollInterval: Site default from config.yaml (monitor.poll_interval)
//
// Returns:
//   - Config: Ready for New
//   - error: ErrInvalidConfig wrapping every problem found
func Decode(tree *pathvalue.Value, pollInterval time.Duration) (Config, error) {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	args := component.NewArgs(tree)
	args.Require("sensors")

	cfg := Config{
		Sensors:      component.InstancesOf[plant.Sensor](args, "sensors"),
		Store:        component.InstanceOf[plant.Store](args, "store"),
		Sinks:        component.InstancesOf[plant.Sink](args, "sinks"),
		PollInterval: args.Duration("poll_interval", pollInterval),
	}
	if args.Has("motion") {
		cfg.Motion = decodeMotion(args.Sub("motion"), cfg.Sensors)
	}
	if err := args.Err(); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeMotion(args component.Args, sensors []plant.Sensor) *MotionConfig {
	args.Require("lights", "on_motion", "on_timeout")
	m := &MotionConfig{
		Lights:    component.InstancesOf[plant.Light](args, "lights"),
		Timeout:   args.Duration("timeout", DefaultMotionTimeout),
		OnMotion:  decodeScene(args.Sub("on_motion")),
		OnTimeout: decodeScene(args.Sub("on_timeout")),
	}
	if args.Has("sensors") {
		m.Sensors = component.InstancesOf[plant.Sensor](args, "sensors")
	} else {
		m.Sensors = plant.SensorsByType(sensors, plant.SensorTypeEnvironment)
	}
	return m
}

func decodeScene(args component.Args) Scene {
	return Scene{
		Color: plant.Color{
			Hue:        args.Float("hue", 0),
			Saturation: args.Float("saturation", 0),
			Brightness: args.Float("brightness", 0),
			Kelvin:     args.Int("kelvin", 0),
		},
		Transition: args.Duration("transition", 0),
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var problems []string
	if len(c.Sensors) == 0 {
		problems = append(problems, "sensors: at least one sensor is required")
	}
	if c.Store == nil {
		problems = append(problems, "store: required")
	}
	if c.PollInterval <= 0 {
		problems = append(problems, "poll_interval: must be positive")
	}
	if m := c.Motion; m != nil {
		if len(m.Lights) == 0 {
			problems = append(problems, "motion.lights: at least one light is required")
		}
		if len(m.Sensors) == 0 {
			problems = append(problems, "motion.sensors: no motion sensors configured or found")
		}
		if m.Timeout <= 0 {
			problems = append(problems, "motion.timeout: must be positive")
		}
		problems = append(problems, validateScene("motion.on_motion", m.OnMotion)...)
		problems = append(problems, validateScene("motion.on_timeout", m.OnTimeout)...)
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, problems)
	}
	return nil
}

func validateScene(at string, s Scene) []string {
	var problems []string
	c := s.Color
	if c.Hue < 0 || c.Hue >= 360 {
		problems = append(problems, at+".hue: must be in [0, 360)")
	}
	if c.Saturation < 0 || c.Saturation > 1 {
		problems = append(problems, at+".saturation: must be in [0, 1]")
	}
	if c.Brightness < 0 || c.Brightness > 1 {
		problems = append(problems, at+".brightness: must be in [0, 1]")
	}
	if c.Kelvin < 0 || c.Kelvin > maxKelvin {
		problems = append(problems, fmt.Sprintf("%s.kelvin: must be in [0, %d]", at, maxKelvin))
	}
	if s.Transition < 0 {
		problems = append(problems, at+".transition: must not be negative")
	}
	return problems
}
