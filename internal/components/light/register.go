package light

import "github.com/nerrad567/piplant-core/internal/component"

// Module paths registered by this package.
const (
	ModuleMockDevice = "light.device.mock"
	ModuleMockGroup  = "light.device_group.mock"
	ModuleLIFXHTTP   = "light.device_group.lifx.http_group"
)

func init() {
	component.MustRegister(ModuleMockDevice, newMockDevice)
	component.MustRegister(ModuleMockGroup, newMockGroup)
	component.MustRegister(ModuleLIFXHTTP, newLIFXGroup)
}
