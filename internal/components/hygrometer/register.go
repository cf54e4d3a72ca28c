package hygrometer

import "github.com/nerrad567/piplant-core/internal/component"

// Module paths registered by this package.
const (
	ModuleCapacitive = "sensor.hygrometer.aideepen.capacitivehygrometer"
	ModuleMock       = "sensor.hygrometer.mock"
)

func init() {
	component.MustRegister(ModuleCapacitive, newCapacitive)
	component.MustRegister(ModuleMock, newMock)
}
