package environment

import "github.com/nerrad567/piplant-core/internal/component"

// Module paths registered by this package.
const (
	ModuleSensorHub = "sensor.environment.mqtt.sensorhub"
	ModulePIR       = "sensor.environment.raspberrypi.pir"
	ModuleMock      = "sensor.environment.mock"
)

func init() {
	component.MustRegister(ModuleSensorHub, newSensorHub)
	component.MustRegister(ModulePIR, newPIR)
	component.MustRegister(ModuleMock, newMock)
}
