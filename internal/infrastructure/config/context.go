package config

import "context"

type contextKey struct{}

// NewContext returns a copy of ctx carrying cfg.
//
// The resolution pass hands its context to every component factory, so
// factories for infrastructure-backed packages (database, MQTT, InfluxDB,
// LIFX) read site-wide connection settings from it and apply their own
// kwargs on top.
func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, contextKey{}, cfg)
}

// FromContext returns the configuration attached to ctx, or Default().
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(contextKey{}).(*Config); ok && cfg != nil {
		return cfg
	}
	return Default()
}
