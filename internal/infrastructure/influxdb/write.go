package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurements written by PiPlant.
const (
	MeasurementSensorReadings = "sensor_readings"
	MeasurementLightEvents    = "light_events"
)

// WriteSensorReading writes one sensor reading.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - sensorType: Sensor family (e.g., "hygrometer", "environment", "device")
//   - sensor: Package name of the sensor (e.g., "soil")
//   - quantity: What was measured (e.g., "moisture", "temperature")
//   - value: The numeric value to record
//   - ts: When the reading was taken
//
// Example:
//
//	client.WriteSensorReading("hygrometer", "soil", "moisture", 41.5, time.Now())
func (c *Client) WriteSensorReading(sensorType, sensor, quantity string, value float64, ts time.Time) {
	c.WritePointWithTime(MeasurementSensorReadings,
		map[string]string{
			"sensor_type": sensorType,
			"sensor":      sensor,
			"quantity":    quantity,
		},
		map[string]interface{}{
			"value": value,
		},
		ts,
	)
}

// WriteLightEvent records a light group being switched on or off.
func (c *Client) WriteLightEvent(light string, on bool, reason string, ts time.Time) {
	c.WritePointWithTime(MeasurementLightEvents,
		map[string]string{"light": light, "reason": reason},
		map[string]interface{}{"on": on},
		ts,
	)
}

// WritePointWithTime writes a point with a specific timestamp. It is
// dropped silently when the client is closed.
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
