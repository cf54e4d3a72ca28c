// Package influxdb provides InfluxDB connectivity for PiPlant Core.
//
// It wraps the official influxdb-client-go v2 library for connection
// management, sensor reading writes and health monitoring.
//
// # Purpose
//
// Every polled sensor reading can be mirrored to InfluxDB as a point in the
// sensor_readings measurement, tagged with the sensor type, sensor name and
// quantity. Grafana or the InfluxDB UI then charts the plant over time.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WriteSensorReading("hygrometer", "soil", "moisture", 41.5, time.Now())
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes; failures are
// delivered to the SetOnError callback.
package influxdb
