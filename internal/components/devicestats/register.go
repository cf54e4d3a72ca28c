package devicestats

import "github.com/nerrad567/piplant-core/internal/component"

// Module paths registered by this package.
const (
	ModuleDeviceStatistics = "sensor.device.raspberrypi.devicestatistics"
	ModuleMock             = "sensor.device.mock"
)

func init() {
	component.MustRegister(ModuleDeviceStatistics, newDeviceStatistics)
	component.MustRegister(ModuleMock, newMock)
}
