package registry

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"slices"
	"sync"

	"github.com/nerrad567/piplant-core/internal/component"
	"github.com/nerrad567/piplant-core/internal/pathvalue"
)

// Logger defines the logging interface used by the Registry.
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

// State is the registry lifecycle position. It only moves forward.
type State int

const (
	StateEmpty State = iota
	StateEntriesLoaded
	StateOrdered
	StateInstantiated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateEntriesLoaded:
		return "entries_loaded"
	case StateOrdered:
		return "ordered"
	case StateInstantiated:
		return "instantiated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Registry owns the package entries and runs the single resolution pass
// that turns them into instances.
//
// Lifecycle: Register → ImportPackages → GetInstance/Instances/Embed.
// A failed pass leaves no instances visible and cannot be retried.
//
// Thread Safety: all methods are safe for concurrent use, but ImportPackages
// runs at most once and is meant to complete before other subsystems start.
type Registry struct {
	loader *component.Loader
	logger Logger

	mu        sync.RWMutex
	state     State
	attempted bool
	entries   []Entry
	index     map[string]int
	order     []string
	instances *Instances
}

// New creates an empty registry that constructs entries with loader.
func New(loader *component.Loader) *Registry {
	if loader == nil {
		loader = component.NewLoader(nil)
	}
	return &Registry{
		loader: loader,
		logger: noopLogger{},
		index:  make(map[string]int),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	r.logger = logger
}

// Register validates and stores entries. It may only be called once.
//
// Returns *ConfigError for a missing name, duplicate name, missing module or
// non-mapping kwargs, and ErrAlreadyRegistered on a second call.
func (r *Registry) Register(entries []Entry) error {
	if err := validateEntries(entries); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateEmpty {
		return ErrAlreadyRegistered
	}

	r.entries = make([]Entry, len(entries))
	for i, e := range entries {
		if e.Kwargs == nil {
			e.Kwargs = pathvalue.Mapping()
		}
		if !e.Mock {
			e.Mock = mockRequested(e.Kwargs)
		}
		r.entries[i] = e
		r.index[e.Name] = i
	}
	r.state = StateEntriesLoaded

	r.logger.Debug("package entries registered", "count", len(entries))
	return nil
}

func validateEntries(entries []Entry) error {
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		if e.Name == "" {
			return &ConfigError{Entry: fmt.Sprintf("#%d", i), Reason: "missing name"}
		}
		if seen[e.Name] {
			return &ConfigError{Entry: fmt.Sprintf("%q", e.Name), Reason: "duplicate name"}
		}
		seen[e.Name] = true
		if e.Module.IsZero() {
			return &ConfigError{Entry: fmt.Sprintf("%q", e.Name), Reason: "missing module"}
		}
		if e.Kwargs != nil && e.Kwargs.Kind() != pathvalue.KindMapping && !e.Kwargs.IsNull() {
			return &ConfigError{Entry: fmt.Sprintf("%q", e.Name), Reason: "kwargs must be a mapping, got " + e.Kwargs.Kind().String()}
		}
	}
	return nil
}

// ImportPackages runs the resolution pass: it computes the build order, then
// for each entry embeds the instances it references into a copy of its kwargs
// and constructs it with the loader. ctx is handed to every factory.
//
// When mock is true every entry resolves to its family mock (see
// component.Loader.Resolve). The first failure aborts the pass and is returned
// unmodified; instances become visible only when every entry was built.
func (r *Registry) ImportPackages(ctx context.Context, mock bool) error {
	r.mu.Lock()
	switch {
	case r.attempted || r.state > StateEntriesLoaded:
		r.mu.Unlock()
		return ErrAlreadyImported
	case r.state == StateEmpty:
		r.mu.Unlock()
		return ErrNoEntries
	}
	r.attempted = true
	entries := r.entries
	r.mu.Unlock()

	order, err := BuildOrder(entries)
	if err != nil {
		r.logger.Error("computing package build order failed", "error", err)
		return err
	}

	r.mu.Lock()
	r.order = order
	r.state = StateOrdered
	r.mu.Unlock()

	r.logger.Info("importing packages", "count", len(order), "mock", mock)

	built := make(map[string]any, len(order))
	lookup := func(name string) (any, bool) {
		obj, ok := built[name]
		return obj, ok
	}

	for i, name := range order {
		entry := entries[r.indexOf(name)]

		kwargs, err := embed(entry.Name, entry.Kwargs, lookup)
		if err != nil {
			r.logger.Error("embedding package references failed", "package", name, "error", err)
			r.release(order[:i], built)
			return err
		}

		obj, err := r.loader.Load(ctx, entry.Reference(), kwargs, mock)
		if err != nil {
			if component.IsLookupError(err) {
				r.logger.Error("package module could not be resolved; cannot continue",
					"package", name,
					"module", entry.Module.String(),
					"error", err,
				)
			} else {
				r.logger.Error("package construction failed", "package", name, "error", err)
			}
			r.release(order[:i], built)
			return err
		}

		built[name] = obj
		r.logger.Debug("package imported", "package", name, "type", fmt.Sprintf("%T", obj))
	}

	r.mu.Lock()
	r.instances = newInstances(order, built)
	r.state = StateInstantiated
	r.mu.Unlock()

	r.logger.Info("packages imported", "count", len(order))
	return nil
}

// release closes the io.Closer instances of a failed pass, newest first.
func (r *Registry) release(names []string, built map[string]any) {
	for _, name := range slices.Backward(names) {
		c, ok := built[name].(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			r.logger.Warn("closing package after failed import", "package", name, "error", err)
		}
	}
}

func (r *Registry) indexOf(name string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.index[name]
}

// GetInstance returns the instance built for name.
//
// Returns *NotImportedError before the pass has completed or when name was
// never registered.
func (r *Registry) GetInstance(name string) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.state != StateInstantiated {
		return nil, &NotImportedError{Name: name}
	}
	obj, ok := r.instances.Get(name)
	if !ok {
		return nil, &NotImportedError{Name: name, Imported: true}
	}
	return obj, nil
}

// GetInstances returns the instances for names, in the same order.
func (r *Registry) GetInstances(names ...string) ([]any, error) {
	out := make([]any, 0, len(names))
	for _, name := range names {
		obj, err := r.GetInstance(name)
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	return out, nil
}

// InstanceAs returns the instance for name asserted to T.
func InstanceAs[T any](r *Registry, name string) (T, error) {
	var zero T
	obj, err := r.GetInstance(name)
	if err != nil {
		return zero, err
	}
	t, ok := obj.(T)
	if !ok {
		return zero, fmt.Errorf("%w: package %q is %T, not %s", ErrInstanceType, name, obj, reflect.TypeFor[T]())
	}
	return t, nil
}

// Instances returns the immutable instance view.
// It fails with *NotImportedError until the pass has completed.
func (r *Registry) Instances() (*Instances, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.state != StateInstantiated {
		return nil, &NotImportedError{}
	}
	return r.instances, nil
}

// Embed replaces reference markers in an application document with the
// imported instances. doc is not modified.
func (r *Registry) Embed(doc *pathvalue.Value) (*pathvalue.Value, error) {
	in, err := r.Instances()
	if err != nil {
		return nil, err
	}
	return in.Embed(doc)
}

// State returns the current lifecycle state.
func (r *Registry) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Order returns the computed build order, or nil before it is known.
func (r *Registry) Order() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.order == nil {
		return nil
	}
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Entries returns the registered entries in declaration order.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Graph returns the dependency graph of the registered entries.
func (r *Registry) Graph() (Graph, error) {
	return BuildGraph(r.Entries())
}
