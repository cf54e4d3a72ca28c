package modulepath

import "fmt"

// Scope selects how far up the tree a mock implementation is looked for.
type Scope int

const (
	// ScopeComponent places the mock beside the component:
	// sensor.hygrometer.aideepen.capacitivehygrometer → sensor.hygrometer.aideepen.mock
	ScopeComponent Scope = iota

	// ScopeFamily places the mock in the package family's shared namespace,
	// two levels up: sensor.hygrometer.aideepen.capacitivehygrometer → sensor.hygrometer.mock
	ScopeFamily
)

// String returns the scope name for logs.
func (s Scope) String() string {
	switch s {
	case ScopeComponent:
		return "component"
	case ScopeFamily:
		return "family"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// DeriveMockPath returns the path where a mock for p is registered under the
// given scope. It fails with ErrNoParent when p is too short for the scope.
func DeriveMockPath(p Path, scope Scope) (Path, error) {
	levels := 1
	if scope == ScopeFamily {
		levels = 2
	}
	base := p
	for range levels {
		parent, err := base.Parent()
		if err != nil {
			return Path{}, fmt.Errorf("derive %s mock for %q: %w", scope, p, err)
		}
		base = parent
	}
	return base.Child(MockSegment), nil
}
