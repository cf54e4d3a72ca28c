package mqtt

import (
	"fmt"
	"strings"
)

// TopicPrefix is the root of every PiPlant topic.
const TopicPrefix = "piplant"

// Topics provides builders for PiPlant MQTT topics.
//
//	topics := mqtt.Topics{}
//	topics.SensorReading("hygrometer", "soil")
//	// Returns: "piplant/sensor/hygrometer/soil"
type Topics struct{}

// SensorReading returns the topic a sensor's readings are published on.
//
// Example: piplant/sensor/hygrometer/soil
func (Topics) SensorReading(sensorType, name string) string {
	return fmt.Sprintf("%s/sensor/%s/%s", TopicPrefix, sensorType, name)
}

// SensorQuantity returns the topic for one quantity of a sensor.
//
// Example: piplant/sensor/environment/greenhouse/temperature
func (t Topics) SensorQuantity(sensorType, name, quantity string) string {
	return t.SensorReading(sensorType, name) + "/" + quantity
}

// EnvironmentHub returns the topic an external environment hub reports on.
//
// Example: piplant/hub/greenhouse/environment
func (Topics) EnvironmentHub(hub string) string {
	return fmt.Sprintf("%s/hub/%s/environment", TopicPrefix, hub)
}

// LightState returns the topic for a light group's on/off state.
//
// Example: piplant/light/porch/state
func (Topics) LightState(group string) string {
	return fmt.Sprintf("%s/light/%s/state", TopicPrefix, group)
}

// SystemStatus returns the retained online/offline status topic.
func (Topics) SystemStatus() string {
	return TopicPrefix + "/system/status"
}

// TopicSegment makes a name safe to use as a single topic level.
// Wildcards and separators become underscores; an empty name becomes "_".
func TopicSegment(name string) string {
	if name == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '+', '#', 0:
			return '_'
		}
		return r
	}, name)
}
