// Package logging builds the slog-based logger PiPlant passes to the
// registry, the components and the monitor.
//
// Records are JSON by default and text when logging.format is "text";
// every record carries service=piplant and the build version:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Component factories have no logger parameter, so the CLI stores the
// logger in the import context and factories read it back:
//
//	ctx = logging.NewContext(ctx, logger)
//	...
//	log := logging.FromContext(ctx).Component("mqtt")
//
// FromContext falls back to a logger that discards everything.
//
// Tokens and passwords (LIFX, InfluxDB, MQTT) must never be logged.
package logging
