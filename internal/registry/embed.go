package registry

import (
	"cmp"
	"slices"

	"github.com/nerrad567/piplant-core/internal/pathvalue"
)

// Lookup returns the constructed instance for an entry name.
type Lookup func(name string) (any, bool)

// Embed returns a copy of tree with every reference marker replaced by live
// instances from lookup. tree itself is not modified.
//
// The parent of a package_ref marker becomes the instance, and the parent of
// a package_refs marker becomes the ordered list of instances:
//
//	{driver: {package_ref: db}}         → {driver: <db>}
//	{sensors: {package_refs: [s1, s2]}} → {sensors: [<s1>, <s2>]}
//
// Sibling keys of a marker are dropped with it. A marker at the top level
// replaces the whole tree. Unknown names fail with *NotFoundError.
func Embed(tree *pathvalue.Value, lookup Lookup) (*pathvalue.Value, error) {
	return embed("", tree, lookup)
}

func embed(consumer string, tree *pathvalue.Value, lookup Lookup) (*pathvalue.Value, error) {
	out := tree.Clone()
	markers := findMarkers(out)

	// Deeper markers first, so replacing an outer parent never strands an
	// inner marker path.
	slices.SortStableFunc(markers, func(a, b marker) int {
		return cmp.Compare(len(b.at), len(a.at))
	})

	for _, m := range markers {
		names, err := m.names(out)
		if err != nil {
			return nil, &ConfigError{Entry: quoteOr(consumer, "document"), Reason: err.Error()}
		}

		instances := make([]*pathvalue.Value, 0, len(names))
		for _, name := range names {
			obj, ok := lookup(name)
			if !ok {
				return nil, &NotFoundError{Consumer: consumer, Name: name}
			}
			instances = append(instances, pathvalue.Instance(obj))
		}

		replacement := pathvalue.Sequence(instances...)
		if !m.plural {
			replacement = instances[0]
		}

		if err := pathvalue.Delete(out, m.at); err != nil {
			return nil, err
		}
		parent := m.at.Parent()
		if len(parent) == 0 {
			out = replacement
			continue
		}
		if err := pathvalue.Set(out, parent, replacement); err != nil {
			return nil, err
		}
	}
	return out, nil
}
