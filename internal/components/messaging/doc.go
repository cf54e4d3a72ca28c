// Package messaging provides the publish/subscribe broker shared by
// components that talk MQTT.
//
// Registered module paths:
//
//	messaging.mqtt.client   connection to the site MQTT broker
//	messaging.mock          in-process broker with MQTT topic matching
//
// Both satisfy plant.Broker. Consumers reference a broker entry with
// package_ref so the process holds a single connection.
package messaging
