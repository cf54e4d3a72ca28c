package telemetry

import "github.com/nerrad567/piplant-core/internal/component"

// Module paths registered by this package.
const (
	ModuleMQTT     = "telemetry.mqtt.publisher"
	ModuleInfluxDB = "telemetry.influxdb.writer"
	ModuleMock     = "telemetry.mock"
)

func init() {
	component.MustRegister(ModuleMQTT, newMQTTPublisher)
	component.MustRegister(ModuleInfluxDB, newInfluxWriter)
	component.MustRegister(ModuleMock, newRecorder)
}
