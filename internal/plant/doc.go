// Package plant defines the domain types shared by PiPlant components and
// the monitor that drives them.
//
// Concrete implementations live under internal/components and are built by
// the package registry; this package only holds the contracts between them:
//
//   - Sensor: anything that produces Readings (hygrometers, environment hubs,
//     device statistics)
//   - Store: persistence for readings and light events
//   - Sink: a telemetry destination (MQTT, InfluxDB)
//   - Light: a switchable light or group of lights
//   - Broker: publish/subscribe messaging shared by several components
//
// Components receive each other through package_ref markers, so the
// interfaces are deliberately small and satisfied by the mocks as well as
// the hardware-backed types.
package plant
