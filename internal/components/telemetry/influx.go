package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/nerrad567/piplant-core/internal/component"
	"github.com/nerrad567/piplant-core/internal/infrastructure/config"
	"github.com/nerrad567/piplant-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/piplant-core/internal/infrastructure/logging"
	"github.com/nerrad567/piplant-core/internal/plant"
)

// pointWriter is the subset of *influxdb.Client the writer uses.
type pointWriter interface {
	WriteSensorReading(sensorType, sensor, quantity string, value float64, ts time.Time)
	WriteLightEvent(light string, on bool, reason string, ts time.Time)
	IsConnected() bool
	Flush()
	Close() error
}

// InfluxWriter writes readings to the sensor_readings measurement.
// Writes are batched by the client; Publish only fails once the writer
// is closed.
type InfluxWriter struct {
	name   string
	client pointWriter
}

// NewInfluxWriter wraps a connected client.
func NewInfluxWriter(name string, client *influxdb.Client) *InfluxWriter {
	return &InfluxWriter{name: name, client: client}
}

// Name returns the sink name.
func (w *InfluxWriter) Name() string { return w.name }

// Publish queues every reading for the next batch.
func (w *InfluxWriter) Publish(_ context.Context, readings []plant.Reading) error {
	if !w.client.IsConnected() {
		return influxdb.ErrNotConnected
	}
	for _, r := range readings {
		w.client.WriteSensorReading(string(r.Type), r.Sensor, r.Quantity, r.Value, r.Time)
	}
	return nil
}

// PublishLightEvent queues ev on the light_events measurement.
func (w *InfluxWriter) PublishLightEvent(_ context.Context, ev plant.LightEvent) error {
	if !w.client.IsConnected() {
		return influxdb.ErrNotConnected
	}
	w.client.WriteLightEvent(ev.Light, ev.On, ev.Reason, ev.Time)
	return nil
}

// Flush blocks until queued points are written.
func (w *InfluxWriter) Flush() {
	w.client.Flush()
}

// Close flushes and disconnects.
func (w *InfluxWriter) Close() error {
	return w.client.Close()
}

// influxConfig applies kwargs over the site influxdb section: url, token,
// org, bucket, batch_size, flush_interval. Declaring the package enables
// the connection regardless of influxdb.enabled.
func influxConfig(base config.InfluxDBConfig, args component.Args) (config.InfluxDBConfig, error) {
	cfg := base
	cfg.Enabled = true
	cfg.URL = args.String("url", cfg.URL)
	cfg.Token = args.String("token", cfg.Token)
	cfg.Org = args.String("org", cfg.Org)
	cfg.Bucket = args.String("bucket", cfg.Bucket)
	cfg.BatchSize = args.Int("batch_size", cfg.BatchSize)
	if args.Has("flush_interval") {
		cfg.FlushInterval = int(args.Duration("flush_interval", 0).Seconds())
	}
	if err := args.Err(); err != nil {
		return cfg, err
	}

	switch {
	case cfg.URL == "":
		return cfg, fmt.Errorf("influxdb: url is required")
	case cfg.Org == "" || cfg.Bucket == "":
		return cfg, fmt.Errorf("influxdb: org and bucket are required")
	}
	return cfg, nil
}

func newInfluxWriter(ctx context.Context, args component.Args) (any, error) {
	name := args.String("name", "influxdb")
	cfg, err := influxConfig(config.FromContext(ctx).InfluxDB, args)
	if err != nil {
		return nil, err
	}

	client, err := influxdb.Connect(cfg)
	if err != nil {
		return nil, err
	}
	log := logging.FromContext(ctx).Component("telemetry").With("sink", name)
	client.SetOnError(func(err error) {
		log.Warn("influxdb write failed", "error", err)
	})
	log.Info("connected to influxdb", "url", cfg.URL, "bucket", cfg.Bucket)
	return NewInfluxWriter(name, client), nil
}
