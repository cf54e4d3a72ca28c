package store

import "github.com/nerrad567/piplant-core/internal/component"

// Module paths registered by this package.
const (
	ModuleSQLite     = "database.driver.sqlite3.driver"
	ModuleSQLiteMock = "database.driver.sqlite3.mock"
	ModuleMock       = "database.driver.mock"
)

func init() {
	component.MustRegister(ModuleSQLite, newSQLite)
	component.MustRegister(ModuleSQLiteMock, newSQLiteMock)
	component.MustRegister(ModuleMock, newMemory)
}
