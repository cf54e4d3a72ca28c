// Package modulepath provides the dotted path value used to name where a
// component implementation lives, e.g. "sensor.hygrometer.mock".
//
// A Path is immutable: every navigation method returns a new value and never
// shares its backing array with the receiver.
package modulepath

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Delimiter separates path segments.
const Delimiter = "."

// MockSegment is the final segment of every mock implementation path.
const MockSegment = "mock"

var (
	// ErrInvalidPath is returned when a raw string cannot form a path.
	ErrInvalidPath = errors.New("modulepath: invalid path")

	// ErrNoParent is returned by Parent on a single-segment path.
	ErrNoParent = errors.New("modulepath: no parent")
)

// Path is an ordered, non-empty sequence of segments.
// The zero Path is invalid and reports IsZero.
type Path struct {
	segments []string
}

// Parse builds a Path from a dotted string. The string must contain at least
// one delimiter and no empty segment.
func Parse(raw string) (Path, error) {
	if !strings.Contains(raw, Delimiter) {
		return Path{}, fmt.Errorf("%w: %q has no %q delimiter", ErrInvalidPath, raw, Delimiter)
	}
	return New(strings.Split(raw, Delimiter)...)
}

// MustParse is like Parse but panics on error. Intended for package-level
// declarations and tests.
func MustParse(raw string) Path {
	p, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// New builds a Path from segments. At least one segment is required and
// segments may not be empty or contain the delimiter.
func New(segments ...string) (Path, error) {
	if len(segments) == 0 {
		return Path{}, fmt.Errorf("%w: no segments", ErrInvalidPath)
	}
	for i, s := range segments {
		if s == "" {
			return Path{}, fmt.Errorf("%w: empty segment %d in %q", ErrInvalidPath, i, strings.Join(segments, Delimiter))
		}
		if strings.Contains(s, Delimiter) {
			return Path{}, fmt.Errorf("%w: segment %q contains %q", ErrInvalidPath, s, Delimiter)
		}
	}
	out := make([]string, len(segments))
	copy(out, segments)
	return Path{segments: out}, nil
}

// Parent returns the path without its last segment.
func (p Path) Parent() (Path, error) {
	if len(p.segments) <= 1 {
		return Path{}, fmt.Errorf("%w: %q", ErrNoParent, p.String())
	}
	out := make([]string, len(p.segments)-1)
	copy(out, p.segments)
	return Path{segments: out}, nil
}

// Child returns a new path with seg appended.
func (p Path) Child(seg string) Path {
	out := make([]string, len(p.segments), len(p.segments)+1)
	copy(out, p.segments)
	return Path{segments: append(out, seg)}
}

// Equal reports whether both paths have identical segments.
func (p Path) Equal(o Path) bool {
	if len(p.segments) != len(o.segments) {
		return false
	}
	for i := range p.segments {
		if p.segments[i] != o.segments[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is a leading run of p's segments.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix.segments) > len(p.segments) {
		return false
	}
	for i := range prefix.segments {
		if p.segments[i] != prefix.segments[i] {
			return false
		}
	}
	return true
}

// Segments returns a copy of the segments.
func (p Path) Segments() []string {
	out := make([]string, len(p.segments))
	copy(out, p.segments)
	return out
}

// Len returns the number of segments.
func (p Path) Len() int { return len(p.segments) }

// IsZero reports whether p is the zero Path.
func (p Path) IsZero() bool { return len(p.segments) == 0 }

// Last returns the final segment, or "" for the zero Path.
func (p Path) Last() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// String returns the dotted form.
func (p Path) String() string { return strings.Join(p.segments, Delimiter) }

// MarshalText implements encoding.TextMarshaler.
func (p Path) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Path) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Path) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("%w: line %d: %v", ErrInvalidPath, node.Line, err)
	}
	return p.UnmarshalText([]byte(raw))
}
