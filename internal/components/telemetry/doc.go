// Package telemetry provides plant.Sink components that mirror every
// stored batch of readings somewhere else: an MQTT broker for dashboards
// and home automation, or InfluxDB for long-term charts.
//
// Sinks run after the store has accepted a batch. A sink failure is
// logged by the monitor and never loses data from the store.
package telemetry
