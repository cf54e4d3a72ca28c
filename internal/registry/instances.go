package registry

import "github.com/nerrad567/piplant-core/internal/pathvalue"

// Instances is the immutable name → instance view published by a completed
// resolution pass.
//
// Thread Safety: an Instances value is never modified after construction and
// may be read from any number of goroutines without locking.
type Instances struct {
	names  []string
	byName map[string]any
}

func newInstances(order []string, built map[string]any) *Instances {
	in := &Instances{
		names:  make([]string, len(order)),
		byName: make(map[string]any, len(built)),
	}
	copy(in.names, order)
	for k, v := range built {
		in.byName[k] = v
	}
	return in
}

// Get returns the instance built for name.
func (in *Instances) Get(name string) (any, bool) {
	if in == nil {
		return nil, false
	}
	obj, ok := in.byName[name]
	return obj, ok
}

// Names returns the entry names in instantiation order.
func (in *Instances) Names() []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in.names))
	copy(out, in.names)
	return out
}

// Len returns the number of instances.
func (in *Instances) Len() int {
	if in == nil {
		return 0
	}
	return len(in.names)
}

// Embed replaces reference markers in tree with instances from this view.
func (in *Instances) Embed(tree *pathvalue.Value) (*pathvalue.Value, error) {
	return Embed(tree, in.Get)
}
