package component

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/nerrad567/piplant-core/internal/pathvalue"
)

// Args gives factories typed access to their keyword arguments.
//
// Accessors take a default that is returned when the key is absent or null.
// A present value of the wrong shape is recorded and the default returned;
// factories check Err once after reading everything:
//
//	path := args.String("path", "./data/piplant.db")
//	timeout := args.Duration("busy_timeout", 5*time.Second)
//	if err := args.Err(); err != nil {
//	    return nil, err
//	}
//
// Args values share their error list, so copies report the same Err.
type Args struct {
	tree *pathvalue.Value
	errs *[]error
}

// NewArgs wraps a kwargs mapping. A nil or non-mapping tree is treated as empty.
func NewArgs(tree *pathvalue.Value) Args {
	if tree.Kind() != pathvalue.KindMapping {
		tree = pathvalue.Mapping()
	}
	return Args{tree: tree, errs: new([]error)}
}

// ArgsFrom builds Args from plain Go values. Intended for tests and for code
// constructing components directly.
func ArgsFrom(kwargs map[string]any) Args {
	return NewArgs(pathvalue.FromNative(kwargs))
}

// Tree returns the underlying mapping.
func (a Args) Tree() *pathvalue.Value { return a.tree }

// Err returns every recorded argument error, joined, or nil.
func (a Args) Err() error {
	if a.errs == nil {
		return nil
	}
	return errors.Join(*a.errs...)
}

func (a Args) fail(key, reason string) {
	if a.errs == nil {
		return
	}
	*a.errs = append(*a.errs, &ArgumentError{Key: key, Reason: reason})
}

// Has reports whether key is present and not null.
func (a Args) Has(key string) bool {
	v, ok := a.tree.Lookup(key)
	return ok && !v.IsNull()
}

// Value returns the raw value at key, or nil.
func (a Args) Value(key string) *pathvalue.Value {
	v, _ := a.tree.Lookup(key)
	return v
}

// Require records an error for every key that is absent or null.
func (a Args) Require(keys ...string) {
	for _, k := range keys {
		if !a.Has(k) {
			a.fail(k, "required")
		}
	}
}

// String returns a string argument.
func (a Args) String(key, def string) string {
	if !a.Has(key) {
		return def
	}
	s, ok := a.Value(key).AsString()
	if !ok {
		a.fail(key, "want string, got "+a.Value(key).Kind().String())
		return def
	}
	return s
}

// Int returns an integral number argument.
func (a Args) Int(key string, def int) int {
	if !a.Has(key) {
		return def
	}
	n, ok := a.Value(key).AsInt()
	if !ok {
		a.fail(key, "want integer, got "+a.Value(key).String())
		return def
	}
	return n
}

// Float returns a number argument.
func (a Args) Float(key string, def float64) float64 {
	if !a.Has(key) {
		return def
	}
	n, ok := a.Value(key).AsNumber()
	if !ok {
		a.fail(key, "want number, got "+a.Value(key).Kind().String())
		return def
	}
	return n
}

// Bool returns a boolean argument. Only true and false are accepted;
// use Switch for on/off style values.
func (a Args) Bool(key string, def bool) bool {
	if !a.Has(key) {
		return def
	}
	b, ok := a.Value(key).AsBool()
	if !ok {
		a.fail(key, "want bool, got "+a.Value(key).Kind().String())
		return def
	}
	return b
}

// Switch returns a boolean that may also be written as on/off or
// enabled/disabled.
func (a Args) Switch(key string, def bool) bool {
	if !a.Has(key) {
		return def
	}
	v := a.Value(key)
	if b, ok := v.AsBool(); ok {
		return b
	}
	s, ok := v.AsString()
	if !ok {
		a.fail(key, "want switch, got "+v.Kind().String())
		return def
	}
	b, err := ParseSwitch(s)
	if err != nil {
		a.fail(key, err.Error())
		return def
	}
	return b
}

// Duration returns a duration written as a human string ("2m", "30s") or a
// number of seconds.
func (a Args) Duration(key string, def time.Duration) time.Duration {
	if !a.Has(key) {
		return def
	}
	v := a.Value(key)
	if n, ok := v.AsNumber(); ok {
		if n < 0 {
			a.fail(key, ErrNegativeDuration.Error())
			return def
		}
		return time.Duration(n * float64(time.Second))
	}
	s, ok := v.AsString()
	if !ok {
		a.fail(key, "want duration, got "+v.Kind().String())
		return def
	}
	d, err := ParseDuration(s)
	if err != nil {
		a.fail(key, err.Error())
		return def
	}
	return d
}

// Strings returns a sequence of strings. A single string is accepted as a
// one-element list.
func (a Args) Strings(key string) []string {
	if !a.Has(key) {
		return nil
	}
	v := a.Value(key)
	if s, ok := v.AsString(); ok {
		return []string{s}
	}
	if v.Kind() != pathvalue.KindSequence {
		a.fail(key, "want list of strings, got "+v.Kind().String())
		return nil
	}
	out := make([]string, 0, v.Len())
	for i, item := range v.Items() {
		s, ok := item.AsString()
		if !ok {
			a.fail(fmt.Sprintf("%s[%d]", key, i), "want string, got "+item.Kind().String())
			continue
		}
		out = append(out, s)
	}
	return out
}

// Instance returns the constructed object at key. It is required: absence is
// recorded as an error.
func (a Args) Instance(key string) any {
	if !a.Has(key) {
		a.fail(key, "required instance")
		return nil
	}
	obj, ok := a.Value(key).AsInstance()
	if !ok {
		a.fail(key, "want instance, got "+a.Value(key).Kind().String()+" (missing package_ref?)")
		return nil
	}
	return obj
}

// Instances returns a sequence of constructed objects. An absent key yields
// an empty list.
func (a Args) Instances(key string) []any {
	if !a.Has(key) {
		return nil
	}
	v := a.Value(key)
	if obj, ok := v.AsInstance(); ok {
		return []any{obj}
	}
	if v.Kind() != pathvalue.KindSequence {
		a.fail(key, "want list of instances, got "+v.Kind().String()+" (missing package_refs?)")
		return nil
	}
	out := make([]any, 0, v.Len())
	for i, item := range v.Items() {
		obj, ok := item.AsInstance()
		if !ok {
			a.fail(fmt.Sprintf("%s[%d]", key, i), "want instance, got "+item.Kind().String())
			continue
		}
		out = append(out, obj)
	}
	return out
}

// Map returns a mapping argument as plain Go values.
func (a Args) Map(key string) map[string]any {
	if !a.Has(key) {
		return nil
	}
	m, ok := a.Value(key).Native().(map[string]any)
	if !ok {
		a.fail(key, "want mapping, got "+a.Value(key).Kind().String())
		return nil
	}
	return m
}

// Sub returns the nested mapping at key as Args sharing this Args' errors.
func (a Args) Sub(key string) Args {
	v := a.Value(key)
	if a.Has(key) && v.Kind() != pathvalue.KindMapping {
		a.fail(key, "want mapping, got "+v.Kind().String())
	}
	if v.Kind() != pathvalue.KindMapping {
		v = pathvalue.Mapping()
	}
	return Args{tree: v, errs: a.errs}
}

// InstanceOf returns the instance at key asserted to T.
func InstanceOf[T any](a Args, key string) T {
	var zero T
	obj := a.Instance(key)
	if obj == nil {
		return zero
	}
	t, ok := obj.(T)
	if !ok {
		a.fail(key, fmt.Sprintf("instance %T is not a %s", obj, reflect.TypeFor[T]()))
		return zero
	}
	return t
}

// InstancesOf returns the instances at key asserted to T.
func InstancesOf[T any](a Args, key string) []T {
	objs := a.Instances(key)
	out := make([]T, 0, len(objs))
	for i, obj := range objs {
		t, ok := obj.(T)
		if !ok {
			a.fail(fmt.Sprintf("%s[%d]", key, i), fmt.Sprintf("instance %T is not a %s", obj, reflect.TypeFor[T]()))
			continue
		}
		out = append(out, t)
	}
	return out
}
