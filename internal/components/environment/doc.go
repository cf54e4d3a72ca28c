// Package environment provides sensors for the air around the plants.
//
// Registered module paths:
//
//	sensor.environment.mqtt.sensorhub     hub publishing JSON over MQTT
//	sensor.environment.raspberrypi.pir    PIR motion sensor on a GPIO pin
//	sensor.environment.mock               random values in the hub's ranges
//
// A sensor hub reports temperature (°C), pressure (hPa), humidity (%),
// brightness (lux) and motion. The hub is fed by its broker subscription,
// so Read never blocks on the device; it fails with
// plant.ErrSensorUnavailable until a message arrives or once the last one is
// older than max_age.
package environment
