// Package monitor is the PiPlant application loop.
//
// It consumes the embedded app document produced by the registry, in which
// every package_ref has been replaced by a live component, and then on each
// poll:
//
//   - reads every sensor concurrently
//   - stores the readings
//   - hands the batch to each telemetry sink
//   - drives the motion-triggered light groups
//
// A failing sensor or sink is logged and skipped; the other sensors are
// still stored. Only a store failure fails the poll.
//
// # Configuration
//
//	app:
//	  poll_interval: 1m
//	  sensors: {package_refs: [soil, greenhouse, pi]}
//	  store: {package_ref: db}
//	  sinks: {package_refs: [mqtt_telemetry]}
//	  motion:
//	    sensors: {package_refs: [pir]}
//	    lights: {package_refs: [porch]}
//	    timeout: 10m
//	    on_motion: {hue: 0, saturation: 0, brightness: 1, kelvin: 3500}
//	    on_timeout: {brightness: 0, transition: 5s}
package monitor
