package pathvalue

import "fmt"

// FindPathsToKey returns the path of every leaf in tree whose path passes
// through a mapping key equal to one of keys.
//
// Leaves are scalars, instances and empty containers. Mappings are walked in
// key insertion order and sequences element-wise, so the result is
// deterministic. The match is on any segment along the path, not only the
// leaf's own key, which lets markers nested inside lists be found.
func FindPathsToKey(tree *Value, keys ...string) []Path {
	if len(keys) == 0 {
		return nil
	}
	var out []Path
	walkLeaves(tree, nil, func(p Path) {
		if p.LastKeyIndex(keys...) >= 0 {
			out = append(out, p)
		}
	})
	return out
}

// Leaves returns the path of every leaf in tree.
func Leaves(tree *Value) []Path {
	var out []Path
	walkLeaves(tree, nil, func(p Path) { out = append(out, p) })
	return out
}

func walkLeaves(v *Value, at Path, visit func(Path)) {
	switch v.Kind() {
	case KindMapping:
		if len(v.keys) == 0 {
			visit(at)
			return
		}
		for _, k := range v.keys {
			walkLeaves(v.pairs[k], at.Child(Key(k)), visit)
		}
	case KindSequence:
		if len(v.items) == 0 {
			visit(at)
			return
		}
		for i, item := range v.items {
			walkLeaves(item, at.Child(Index(i)), visit)
		}
	default:
		visit(at)
	}
}

// Get returns the node at path. The empty path returns tree itself.
func Get(tree *Value, path Path) (*Value, error) {
	cur := tree
	for i, seg := range path {
		next, err := step(cur, seg)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", err, path[:i+1])
		}
		cur = next
	}
	return cur, nil
}

func step(v *Value, seg Segment) (*Value, error) {
	if seg.isIdx {
		if v.Kind() != KindSequence {
			return nil, ErrNotContainer
		}
		if seg.index < 0 || seg.index >= len(v.items) {
			return nil, ErrIndexOutOfRange
		}
		return v.items[seg.index], nil
	}
	if v.Kind() != KindMapping {
		return nil, ErrNotContainer
	}
	child, ok := v.pairs[seg.key]
	if !ok {
		return nil, ErrPathNotFound
	}
	return child, nil
}

// Set stores value at path. The parent of path must already exist: a mapping
// parent gains or replaces the key, a sequence parent has an in-range element
// replaced.
func Set(tree *Value, path Path, value *Value) error {
	last, ok := path.Last()
	if !ok {
		return ErrEmptyPath
	}
	parent, err := Get(tree, path.Parent())
	if err != nil {
		return err
	}
	if last.isIdx {
		if parent.Kind() != KindSequence {
			return fmt.Errorf("%w: %s", ErrNotContainer, path)
		}
		if last.index < 0 || last.index >= len(parent.items) {
			return fmt.Errorf("%w: %s", ErrIndexOutOfRange, path)
		}
		parent.items[last.index] = orNull(value)
		return nil
	}
	if parent.Kind() != KindMapping {
		return fmt.Errorf("%w: %s", ErrNotContainer, path)
	}
	parent.Put(last.key, value)
	return nil
}

// Delete removes the node at path from its parent. Sequence elements after a
// deleted index shift down by one.
func Delete(tree *Value, path Path) error {
	last, ok := path.Last()
	if !ok {
		return ErrEmptyPath
	}
	parent, err := Get(tree, path.Parent())
	if err != nil {
		return err
	}
	if last.isIdx {
		if parent.Kind() != KindSequence {
			return fmt.Errorf("%w: %s", ErrNotContainer, path)
		}
		if last.index < 0 || last.index >= len(parent.items) {
			return fmt.Errorf("%w: %s", ErrIndexOutOfRange, path)
		}
		parent.items = append(parent.items[:last.index], parent.items[last.index+1:]...)
		return nil
	}
	if parent.Kind() != KindMapping {
		return fmt.Errorf("%w: %s", ErrNotContainer, path)
	}
	if !parent.Remove(last.key) {
		return fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}
	return nil
}
