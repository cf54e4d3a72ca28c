package registry

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. The typed errors below unwrap to these.
var (
	// ErrConfig is returned for malformed or duplicate entry declarations.
	ErrConfig = errors.New("registry: invalid configuration")

	// ErrNotFound is returned when a reference marker names an unknown entry.
	ErrNotFound = errors.New("registry: entry not found")

	// ErrCircularDependency is returned when an entry's expansion revisits itself.
	ErrCircularDependency = errors.New("registry: circular dependency")

	// ErrNotImported is returned when instances are requested before the
	// resolution pass has completed, or for an unregistered name.
	ErrNotImported = errors.New("registry: package not imported")

	// ErrAlreadyImported is returned when ImportPackages runs a second time.
	ErrAlreadyImported = errors.New("registry: packages already imported")

	// ErrAlreadyRegistered is returned when Register is called twice.
	ErrAlreadyRegistered = errors.New("registry: entries already registered")

	// ErrNoEntries is returned when ImportPackages runs before Register.
	ErrNoEntries = errors.New("registry: no entries registered")

	// ErrInstanceType is returned when an instance is not of the requested type.
	ErrInstanceType = errors.New("registry: instance type mismatch")
)

// ConfigError reports a malformed entry declaration.
type ConfigError struct {
	// Entry is the entry name, or its position when the name is missing.
	Entry  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("registry: entry %s: %s", e.Entry, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

// NotFoundError reports a reference to an entry that does not exist.
type NotFoundError struct {
	// Consumer is the entry holding the reference; empty for application documents.
	Consumer string
	Name     string
}

func (e *NotFoundError) Error() string {
	if e.Consumer == "" {
		return fmt.Sprintf("registry: referenced package %q not found", e.Name)
	}
	return fmt.Sprintf("registry: package %q references unknown package %q", e.Consumer, e.Name)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// CircularDependencyError reports a dependency loop.
type CircularDependencyError struct {
	// Root is the entry whose expansion revisited itself.
	Root string
	// Culprit is the dependency whose reference closed the loop.
	Culprit string
	// Path is the loop, starting and ending with Root.
	Path []string
}

func (e *CircularDependencyError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("registry: circular dependency: %q is referenced by its dependency %q", e.Root, e.Culprit)
	}
	return fmt.Sprintf("registry: circular dependency: %q is referenced by its dependency %q (%s)",
		e.Root, e.Culprit, strings.Join(e.Path, " -> "))
}

func (e *CircularDependencyError) Unwrap() error { return ErrCircularDependency }

// NotImportedError reports an instance request that cannot be served.
type NotImportedError struct {
	Name string
	// Imported is false when the resolution pass has not completed.
	Imported bool
}

func (e *NotImportedError) Error() string {
	if e.Name == "" {
		return "registry: packages not imported"
	}
	if !e.Imported {
		return fmt.Sprintf("registry: package %q requested before packages were imported", e.Name)
	}
	return fmt.Sprintf("registry: package %q was never registered", e.Name)
}

func (e *NotImportedError) Unwrap() error { return ErrNotImported }
