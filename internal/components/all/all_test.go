package all_test

import (
	"testing"

	"github.com/nerrad567/piplant-core/internal/component"
	_ "github.com/nerrad567/piplant-core/internal/components/all"
	"github.com/nerrad567/piplant-core/internal/modulepath"
)

func TestModulesRegistered(t *testing.T) {
	modules := []string{
		"sensor.hygrometer.aideepen.capacitivehygrometer",
		"sensor.hygrometer.mock",
		"sensor.environment.mqtt.sensorhub",
		"sensor.environment.raspberrypi.pir",
		"sensor.environment.mock",
		"sensor.device.raspberrypi.devicestatistics",
		"sensor.device.mock",
		"database.driver.sqlite3.driver",
		"database.driver.sqlite3.mock",
		"database.driver.mock",
		"light.device.mock",
		"light.device_group.mock",
		"light.device_group.lifx.http_group",
		"messaging.mqtt.client",
		"messaging.mock",
		"telemetry.mqtt.publisher",
		"telemetry.influxdb.writer",
		"telemetry.mock",
	}
	for _, m := range modules {
		p, err := modulepath.Parse(m)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", m, err)
		}
		if _, err := component.Default.Lookup(p); err != nil {
			t.Errorf("Lookup(%q) error = %v", m, err)
		}
	}
}

// Every concrete sensor module has a mock at <family>.mock so --mock can
// swap it in.
func TestSensorMocksResolve(t *testing.T) {
	for _, m := range []string{
		"sensor.hygrometer.aideepen.capacitivehygrometer",
		"sensor.environment.mqtt.sensorhub",
		"sensor.environment.raspberrypi.pir",
		"sensor.device.raspberrypi.devicestatistics",
		"light.device_group.lifx.http_group",
		"messaging.mqtt.client",
		"telemetry.mqtt.publisher",
		"database.driver.sqlite3.driver",
	} {
		p, err := modulepath.Parse(m)
		if err != nil {
			t.Fatal(err)
		}
		mock, err := modulepath.DeriveMockPath(p, modulepath.ScopeFamily)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := component.Default.Lookup(mock); err != nil {
			t.Errorf("mock for %s (%s): %v", m, mock, err)
		}
	}
}
