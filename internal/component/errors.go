package component

import (
	"errors"
	"fmt"

	"github.com/nerrad567/piplant-core/internal/modulepath"
)

// Sentinel errors. Typed errors below unwrap to these, so callers can match
// with errors.Is and still extract details with errors.As.
var (
	// ErrModuleNotFound is returned when nothing is registered at or below a path.
	ErrModuleNotFound = errors.New("component: module not found")

	// ErrClassNotFound is returned when a path names a namespace that holds
	// factories but has none registered at the path itself.
	ErrClassNotFound = errors.New("component: class not found")

	// ErrDuplicateFactory is returned when a path is registered twice.
	ErrDuplicateFactory = errors.New("component: factory already registered")

	// ErrNegativeDuration is returned for a duration argument below zero.
	ErrNegativeDuration = errors.New("component: negative duration")

	// ErrNilFactory is returned when Register is given a nil factory.
	ErrNilFactory = errors.New("component: nil factory")

	// ErrNilInstance is returned when a factory reports success without an object.
	ErrNilInstance = errors.New("component: factory returned nil instance")

	// ErrInvalidArgument is returned when a construction argument is missing
	// or has the wrong shape.
	ErrInvalidArgument = errors.New("component: invalid argument")
)

// ModuleNotFoundError reports a path with no registered factory at or below it.
type ModuleNotFoundError struct {
	Path modulepath.Path
}

func (e *ModuleNotFoundError) Error() string {
	return fmt.Sprintf("component: module %q not found", e.Path)
}

func (e *ModuleNotFoundError) Unwrap() error { return ErrModuleNotFound }

// ClassNotFoundError reports a path that is only a namespace of other factories.
type ClassNotFoundError struct {
	Path modulepath.Path
}

func (e *ClassNotFoundError) Error() string {
	return fmt.Sprintf("component: no constructible type declared at %q", e.Path)
}

func (e *ClassNotFoundError) Unwrap() error { return ErrClassNotFound }

// ArgumentError reports a bad construction argument.
type ArgumentError struct {
	Key    string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("component: argument %q: %s", e.Key, e.Reason)
}

func (e *ArgumentError) Unwrap() error { return ErrInvalidArgument }
