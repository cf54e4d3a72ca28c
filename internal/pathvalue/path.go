package pathvalue

import (
	"strconv"
	"strings"
)

// Segment is one step of a Path: either a mapping key or a sequence index.
type Segment struct {
	key   string
	index int
	isIdx bool
}

// Key returns a mapping-key segment.
func Key(k string) Segment { return Segment{key: k} }

// Index returns a sequence-index segment.
func Index(i int) Segment { return Segment{index: i, isIdx: true} }

// IsIndex reports whether s addresses a sequence element.
func (s Segment) IsIndex() bool { return s.isIdx }

// KeyName returns the mapping key; it is empty for index segments.
func (s Segment) KeyName() string { return s.key }

// Position returns the sequence index; it is 0 for key segments.
func (s Segment) Position() int { return s.index }

// String renders the segment as it appears inside Path.String.
func (s Segment) String() string {
	if s.isIdx {
		return "[" + strconv.Itoa(s.index) + "]"
	}
	return s.key
}

// Path addresses a node within a tree. The empty Path is the root.
type Path []Segment

// String renders p in dotted form, e.g. "a.b[0].c". The root renders as "$".
func (p Path) String() string {
	if len(p) == 0 {
		return "$"
	}
	var b strings.Builder
	for i, s := range p {
		if !s.isIdx && i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.String())
	}
	return b.String()
}

// Parent returns p without its last segment. The parent of the root is the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1:len(p)-1]
}

// Last returns the final segment and false when p is the root.
func (p Path) Last() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[len(p)-1], true
}

// Child returns a new Path with s appended. p is never modified.
func (p Path) Child(s Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, s)
}

// Equal reports whether p and o address the same node.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is a leading run of p.
func (p Path) HasPrefix(prefix Path) bool {
	return len(prefix) <= len(p) && p[:len(prefix)].Equal(prefix)
}

// LastKeyIndex returns the position of the deepest key segment whose name is
// one of keys, or -1.
func (p Path) LastKeyIndex(keys ...string) int {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].isIdx {
			continue
		}
		for _, k := range keys {
			if p[i].key == k {
				return i
			}
		}
	}
	return -1
}
