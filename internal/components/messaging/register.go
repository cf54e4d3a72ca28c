package messaging

import "github.com/nerrad567/piplant-core/internal/component"

// Module paths registered by this package.
const (
	ModuleMQTT = "messaging.mqtt.client"
	ModuleMock = "messaging.mock"
)

func init() {
	component.MustRegister(ModuleMQTT, newMQTT)
	component.MustRegister(ModuleMock, newMock)
}
