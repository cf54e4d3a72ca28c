package component

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/nerrad567/piplant-core/internal/modulepath"
)

// Factory constructs a component from its resolved keyword arguments.
//
// The context is the one passed to the resolution pass; factories that do
// blocking I/O (opening a database, connecting to a broker) should honour it.
type Factory func(ctx context.Context, args Args) (any, error)

// Catalogue maps module paths to factories.
//
// Component packages add themselves from init():
//
//	func init() {
//	    component.MustRegister("sensor.hygrometer.mock", newMockHygrometer)
//	}
//
// Thread Safety: all methods are safe for concurrent use.
type Catalogue struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewCatalogue returns an empty catalogue.
func NewCatalogue() *Catalogue {
	return &Catalogue{factories: make(map[string]Factory)}
}

// Register installs f at path. The path must parse as a module path and must
// not already be registered.
func (c *Catalogue) Register(path string, f Factory) error {
	p, err := modulepath.Parse(path)
	if err != nil {
		return err
	}
	if f == nil {
		return fmt.Errorf("%w: %s", ErrNilFactory, path)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := p.String()
	if _, exists := c.factories[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateFactory, key)
	}
	c.factories[key] = f
	return nil
}

// MustRegister is like Register but panics on error.
func (c *Catalogue) MustRegister(path string, f Factory) {
	if err := c.Register(path, f); err != nil {
		panic(err)
	}
}

// Lookup returns the factory registered at p.
//
// Returns:
//   - *ModuleNotFoundError if nothing is registered at or below p
//   - *ClassNotFoundError if p is only a prefix of registered paths
func (c *Catalogue) Lookup(p modulepath.Path) (Factory, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if f, ok := c.factories[p.String()]; ok {
		return f, nil
	}
	for key := range c.factories {
		registered, err := modulepath.Parse(key)
		if err != nil {
			continue
		}
		if registered.Len() > p.Len() && registered.HasPrefix(p) {
			return nil, &ClassNotFoundError{Path: p}
		}
	}
	return nil, &ModuleNotFoundError{Path: p}
}

// Paths returns every registered path, sorted.
func (c *Catalogue) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	paths := make([]string, 0, len(c.factories))
	for p := range c.factories {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Default is the process-wide catalogue that component packages register into.
var Default = NewCatalogue()

// Register installs f at path in the Default catalogue.
func Register(path string, f Factory) error { return Default.Register(path, f) }

// MustRegister installs f at path in the Default catalogue, panicking on error.
func MustRegister(path string, f Factory) { Default.MustRegister(path, f) }
