package plant

import "errors"

// Domain errors for the plant package.
var (
	// ErrInvalidReading is returned when a reading fails validation.
	ErrInvalidReading = errors.New("plant: invalid reading")

	// ErrSensorUnavailable is returned when a sensor has no data to report,
	// for example an MQTT-fed hub that has not heard from its device yet.
	ErrSensorUnavailable = errors.New("plant: sensor unavailable")

	// ErrStoreClosed is returned by stores used after Close.
	ErrStoreClosed = errors.New("plant: store closed")

	// ErrLightUnreachable is returned when a light or group cannot be
	// reached after the component's own retries.
	ErrLightUnreachable = errors.New("plant: light unreachable")

	// ErrBrokerClosed is returned by brokers used after Close.
	ErrBrokerClosed = errors.New("plant: broker closed")
)
