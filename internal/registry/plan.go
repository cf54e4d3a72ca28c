package registry

import (
	"github.com/nerrad567/piplant-core/internal/component"
)

// Step is one entry of a resolution plan.
type Step struct {
	Name         string
	Module       string
	Dependencies []string
	// Resolved is the module path the loader would construct.
	Resolved string
	// Source names the precedence rule that selected Resolved.
	Source string
}

// Plan computes the build order and the implementation each entry would
// resolve to, without constructing anything. It works in any state after
// Register and does not change the state.
func (r *Registry) Plan(mock bool) ([]Step, error) {
	entries := r.Entries()
	if len(entries) == 0 && r.State() == StateEmpty {
		return nil, ErrNoEntries
	}

	g, err := BuildGraph(entries)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byName[e.Name] = e
	}

	steps := make([]Step, 0, len(g.Order))
	for _, name := range g.Order {
		e := byName[name]
		res, err := r.loader.Resolve(e.Reference(), mock)
		if err != nil {
			return nil, err
		}
		steps = append(steps, Step{
			Name:         name,
			Module:       e.Module.String(),
			Dependencies: g.Dependencies(name),
			Resolved:     res.Path.String(),
			Source:       res.Source.String(),
		})
	}
	return steps, nil
}

// Loader returns the loader used to construct entries.
func (r *Registry) Loader() *component.Loader { return r.loader }
