package component

import (
	"context"
	"errors"
	"fmt"

	"github.com/nerrad567/piplant-core/internal/modulepath"
	"github.com/nerrad567/piplant-core/internal/pathvalue"
)

// Logger defines the logging interface used by the Loader.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Reference describes what an entry asks to be built.
type Reference struct {
	// Module is where the implementation is declared.
	Module modulepath.Path

	// RemoteModule, when set, overrides Module on the normal resolution path.
	RemoteModule modulepath.Path

	// CustomMock asks for the component's own mock beside Module.
	CustomMock bool
}

// Source records which precedence rule produced a Resolution.
type Source int

const (
	SourceModule Source = iota
	SourceRemoteModule
	SourceCustomMock
	SourceGlobalMock
)

// String returns the source name for logs.
func (s Source) String() string {
	switch s {
	case SourceModule:
		return "module"
	case SourceRemoteModule:
		return "remote_module"
	case SourceCustomMock:
		return "custom_mock"
	case SourceGlobalMock:
		return "global_mock"
	default:
		return "unknown"
	}
}

// Resolution is the selected implementation for a Reference.
type Resolution struct {
	Path    modulepath.Path
	Source  Source
	Factory Factory
}

// Loader selects and constructs implementations from a Catalogue.
type Loader struct {
	catalogue *Catalogue
	logger    Logger
}

// NewLoader creates a Loader over cat. A nil cat uses Default.
func NewLoader(cat *Catalogue) *Loader {
	if cat == nil {
		cat = Default
	}
	return &Loader{catalogue: cat, logger: noopLogger{}}
}

// SetLogger sets the logger for the loader.
func (l *Loader) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	l.logger = logger
}

// Catalogue returns the catalogue the loader resolves against.
func (l *Loader) Catalogue() *Catalogue { return l.catalogue }

// Resolve selects the implementation for ref. The first applicable rule wins:
//
//  1. ref.CustomMock: the component mock beside Module. Any failure here is
//     logged and resolution continues with the next rules.
//  2. globalMock: the family mock two levels above Module. Failure is returned.
//  3. RemoteModule if set, else Module. Failure is returned.
func (l *Loader) Resolve(ref Reference, globalMock bool) (Resolution, error) {
	if ref.CustomMock {
		path, f, err := l.lookupMock(ref.Module, modulepath.ScopeComponent)
		if err == nil {
			return Resolution{Path: path, Source: SourceCustomMock, Factory: f}, nil
		}
		l.logger.Warn("custom mock not available, continuing without it",
			"module", ref.Module.String(),
			"error", err,
		)
	}

	if globalMock {
		path, f, err := l.lookupMock(ref.Module, modulepath.ScopeFamily)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{Path: path, Source: SourceGlobalMock, Factory: f}, nil
	}

	path, source := ref.Module, SourceModule
	if !ref.RemoteModule.IsZero() {
		path, source = ref.RemoteModule, SourceRemoteModule
	}
	f, err := l.catalogue.Lookup(path)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{Path: path, Source: source, Factory: f}, nil
}

// lookupMock finds the mock for module under scope. A module too short to
// have a mock path is reported as not found.
func (l *Loader) lookupMock(module modulepath.Path, scope modulepath.Scope) (modulepath.Path, Factory, error) {
	path, err := modulepath.DeriveMockPath(module, scope)
	if err != nil {
		return modulepath.Path{}, nil, &ModuleNotFoundError{Path: module}
	}
	f, err := l.catalogue.Lookup(path)
	if err != nil {
		return modulepath.Path{}, nil, err
	}
	return path, f, nil
}

// Load resolves ref and constructs it with kwargs. Errors from the factory
// are returned unmodified.
func (l *Loader) Load(ctx context.Context, ref Reference, kwargs *pathvalue.Value, globalMock bool) (any, error) {
	res, err := l.Resolve(ref, globalMock)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("constructing component",
		"path", res.Path.String(),
		"source", res.Source.String(),
	)

	args := NewArgs(kwargs)
	obj, err := res.Factory(ctx, args)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: %s", ErrNilInstance, res.Path)
	}
	return obj, nil
}

// IsLookupError reports whether err came from module resolution rather than
// construction.
func IsLookupError(err error) bool {
	return errors.Is(err, ErrModuleNotFound) || errors.Is(err, ErrClassNotFound)
}
