package registry

import (
	"github.com/nerrad567/piplant-core/internal/component"
	"github.com/nerrad567/piplant-core/internal/modulepath"
	"github.com/nerrad567/piplant-core/internal/pathvalue"
)

// Reference marker keys recognised at any depth of a kwargs tree.
const (
	// RefKey holds a single entry name.
	RefKey = "package_ref"
	// RefsKey holds a list of entry names.
	RefsKey = "package_refs"
	// MockKey in kwargs asks for the component's own mock.
	MockKey = "mock"
)

// Entry is one declared, named, constructible component.
// Entries are read-only once registered.
type Entry struct {
	Name string
	// Module is where the implementation is declared.
	Module modulepath.Path
	// RemoteModule overrides Module on the normal resolution path; zero when unset.
	RemoteModule modulepath.Path
	// Kwargs is the construction argument mapping, possibly holding reference markers.
	Kwargs *pathvalue.Value
	// Mock asks for the component's own mock implementation.
	Mock bool
}

// Reference returns what the loader should resolve for e.
func (e Entry) Reference() component.Reference {
	return component.Reference{
		Module:       e.Module,
		RemoteModule: e.RemoteModule,
		CustomMock:   e.Mock,
	}
}

// mockRequested reports whether kwargs carries mock: true.
func mockRequested(kwargs *pathvalue.Value) bool {
	v, ok := kwargs.Lookup(MockKey)
	if !ok {
		return false
	}
	b, _ := v.AsBool()
	return b
}
