package pathvalue

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
	KindInstance
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindInstance:
		return "instance"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a node in a configuration tree.
//
// The zero Value and a nil *Value are both Null. Containers are mutable in
// place through Put, Append, Remove and the package-level Set/Delete helpers.
type Value struct {
	kind  Kind
	b     bool
	num   float64
	str   string
	items []*Value
	keys  []string
	pairs map[string]*Value
	inst  any
}

// Null returns a new Null value.
func Null() *Value { return &Value{kind: KindNull} }

// Bool returns a new Bool value.
func Bool(b bool) *Value { return &Value{kind: KindBool, b: b} }

// Number returns a new Number value.
func Number(n float64) *Value { return &Value{kind: KindNumber, num: n} }

// String returns a new String value.
func String(s string) *Value { return &Value{kind: KindString, str: s} }

// Instance wraps a constructed object. A nil object yields Null.
func Instance(obj any) *Value {
	if obj == nil {
		return Null()
	}
	return &Value{kind: KindInstance, inst: obj}
}

// Sequence returns a new Sequence holding items in order.
// Nil items are stored as Null.
func Sequence(items ...*Value) *Value {
	v := &Value{kind: KindSequence, items: make([]*Value, 0, len(items))}
	for _, item := range items {
		v.items = append(v.items, orNull(item))
	}
	return v
}

// Mapping returns a new empty Mapping.
func Mapping() *Value {
	return &Value{kind: KindMapping, pairs: make(map[string]*Value)}
}

func orNull(v *Value) *Value {
	if v == nil {
		return Null()
	}
	return v
}

// Kind reports the variant held by v.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull reports whether v is Null.
func (v *Value) IsNull() bool { return v.Kind() == KindNull }

// AsBool returns the boolean and true if v is a Bool.
func (v *Value) AsBool() (bool, bool) {
	if v.Kind() != KindBool {
		return false, false
	}
	return v.b, true
}

// AsNumber returns the number and true if v is a Number.
func (v *Value) AsNumber() (float64, bool) {
	if v.Kind() != KindNumber {
		return 0, false
	}
	return v.num, true
}

// AsInt returns the number as an int if v is an integral Number.
func (v *Value) AsInt() (int, bool) {
	n, ok := v.AsNumber()
	if !ok || n != math.Trunc(n) || n > math.MaxInt || n < math.MinInt {
		return 0, false
	}
	return int(n), true
}

// AsString returns the string and true if v is a String.
func (v *Value) AsString() (string, bool) {
	if v.Kind() != KindString {
		return "", false
	}
	return v.str, true
}

// AsInstance returns the wrapped object and true if v is an Instance.
func (v *Value) AsInstance() (any, bool) {
	if v.Kind() != KindInstance {
		return nil, false
	}
	return v.inst, true
}

// Len returns the number of items of a Sequence or pairs of a Mapping.
// Other kinds have length 0.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindSequence:
		return len(v.items)
	case KindMapping:
		return len(v.keys)
	default:
		return 0
	}
}

// Index returns the i-th item of a Sequence.
func (v *Value) Index(i int) (*Value, bool) {
	if v.Kind() != KindSequence || i < 0 || i >= len(v.items) {
		return nil, false
	}
	return v.items[i], true
}

// Lookup returns the value stored under key in a Mapping.
func (v *Value) Lookup(key string) (*Value, bool) {
	if v.Kind() != KindMapping {
		return nil, false
	}
	child, ok := v.pairs[key]
	return child, ok
}

// Keys returns the mapping keys in insertion order.
// The returned slice is a copy.
func (v *Value) Keys() []string {
	if v.Kind() != KindMapping {
		return nil
	}
	keys := make([]string, len(v.keys))
	copy(keys, v.keys)
	return keys
}

// Items returns the sequence items. The slice is a copy; the items are not.
func (v *Value) Items() []*Value {
	if v.Kind() != KindSequence {
		return nil
	}
	items := make([]*Value, len(v.items))
	copy(items, v.items)
	return items
}

// Put stores child under key, keeping the key's original position when it
// already exists. It returns v for chaining and panics if v is not a Mapping.
func (v *Value) Put(key string, child *Value) *Value {
	if v.Kind() != KindMapping {
		panic(fmt.Sprintf("pathvalue: Put on %s", v.Kind()))
	}
	if _, exists := v.pairs[key]; !exists {
		v.keys = append(v.keys, key)
	}
	v.pairs[key] = orNull(child)
	return v
}

// Remove deletes key from a Mapping and reports whether it was present.
func (v *Value) Remove(key string) bool {
	if v.Kind() != KindMapping {
		return false
	}
	if _, exists := v.pairs[key]; !exists {
		return false
	}
	delete(v.pairs, key)
	for i, k := range v.keys {
		if k == key {
			v.keys = append(v.keys[:i], v.keys[i+1:]...)
			break
		}
	}
	return true
}

// Append adds items to a Sequence. It panics if v is not a Sequence.
func (v *Value) Append(items ...*Value) *Value {
	if v.Kind() != KindSequence {
		panic(fmt.Sprintf("pathvalue: Append on %s", v.Kind()))
	}
	for _, item := range items {
		v.items = append(v.items, orNull(item))
	}
	return v
}

// Clone returns a deep copy of v. Instances are shared, not copied.
func (v *Value) Clone() *Value {
	switch v.Kind() {
	case KindSequence:
		out := &Value{kind: KindSequence, items: make([]*Value, len(v.items))}
		for i, item := range v.items {
			out.items[i] = item.Clone()
		}
		return out
	case KindMapping:
		out := Mapping()
		for _, k := range v.keys {
			out.Put(k, v.pairs[k].Clone())
		}
		return out
	case KindNull:
		return Null()
	default:
		cp := *v
		return &cp
	}
}

// Native converts v to plain Go values: nil, bool, float64, string, []any,
// map[string]any, or the wrapped instance.
func (v *Value) Native() any {
	switch v.Kind() {
	case KindBool:
		return v.b
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindInstance:
		return v.inst
	case KindSequence:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Native()
		}
		return out
	case KindMapping:
		out := make(map[string]any, len(v.keys))
		for _, k := range v.keys {
			out[k] = v.pairs[k].Native()
		}
		return out
	default:
		return nil
	}
}

// String renders scalars for logs; containers are summarised.
func (v *Value) String() string {
	switch v.Kind() {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.str)
	case KindSequence:
		return fmt.Sprintf("sequence(%d)", len(v.items))
	case KindMapping:
		return fmt.Sprintf("mapping(%d)", len(v.keys))
	default:
		return fmt.Sprintf("instance(%T)", v.inst)
	}
}

// FromNative builds a tree from plain Go values. Go maps carry no order, so
// their keys are inserted sorted. Any type that is not a recognised scalar,
// slice or map becomes an Instance.
func FromNative(obj any) *Value {
	switch x := obj.(type) {
	case nil:
		return Null()
	case *Value:
		return x
	case bool:
		return Bool(x)
	case string:
		return String(x)
	case int:
		return Number(float64(x))
	case int8:
		return Number(float64(x))
	case int16:
		return Number(float64(x))
	case int32:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case uint:
		return Number(float64(x))
	case uint8:
		return Number(float64(x))
	case uint16:
		return Number(float64(x))
	case uint32:
		return Number(float64(x))
	case uint64:
		return Number(float64(x))
	case float32:
		return Number(float64(x))
	case float64:
		return Number(x)
	case []any:
		seq := Sequence()
		for _, item := range x {
			seq.Append(FromNative(item))
		}
		return seq
	case []string:
		seq := Sequence()
		for _, item := range x {
			seq.Append(String(item))
		}
		return seq
	case map[string]any:
		m := Mapping()
		for _, k := range sortedKeys(x) {
			m.Put(k, FromNative(x[k]))
		}
		return m
	default:
		return Instance(obj)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
