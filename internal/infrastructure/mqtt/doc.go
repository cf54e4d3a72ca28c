// Package mqtt provides MQTT client connectivity for PiPlant Core.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Publishing sensor readings and light state
//   - Topic subscriptions (environment hubs push their readings here)
//   - Last Will and Testament (LWT) so dashboards see the plant go offline
//
// # Architecture
//
// The broker sits between the Pi and anything that wants to watch the
// plant. Readings leave on piplant/sensor/{type}/{name}; external
// environment hubs report on piplant/hub/{name}/environment.
//
//	Sensor hubs → MQTT Broker → PiPlant Core → MQTT Broker → Dashboards
//
// # Security Considerations
//
//   - Enable TLS (cfg.Broker.TLS=true) when the broker is off-device
//   - Credentials should come from PIPLANT_MQTT_USERNAME/PIPLANT_MQTT_PASSWORD
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.Topics{}.EnvironmentHub("greenhouse"), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
//
//	topic := mqtt.Topics{}.SensorReading("hygrometer", "soil")
//	client.Publish(topic, []byte(`{"value":41.5}`), 1, false)
package mqtt
