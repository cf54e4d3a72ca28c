package pathvalue

import (
	"testing"
)

type widget struct{ id int }

func TestFromYAML_ScalarKinds(t *testing.T) {
	tree := mustYAML(t, `
n: null
b: true
i: 42
f: 2.5
s: hello
q: "on"
`)

	tests := []struct {
		key  string
		want Kind
	}{
		{"n", KindNull},
		{"b", KindBool},
		{"i", KindNumber},
		{"f", KindNumber},
		{"s", KindString},
		{"q", KindString},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v, ok := tree.Lookup(tt.key)
			if !ok {
				t.Fatalf("key %q missing", tt.key)
			}
			if v.Kind() != tt.want {
				t.Errorf("Kind() = %s, want %s", v.Kind(), tt.want)
			}
		})
	}
}

func TestFromYAML_KeyOrderAndMerge(t *testing.T) {
	tree := mustYAML(t, `
base: &base
  retries: 5
  interval: 2s
group:
  <<: *base
  retries: 3
zeta: 1
alpha: 2
`)

	keys := tree.Keys()
	want := []string{"base", "group", "zeta", "alpha"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("Keys() = %v, want %v", keys, want)
		}
	}

	group, _ := tree.Lookup("group")
	retries, _ := group.Lookup("retries")
	if n, _ := retries.AsInt(); n != 3 {
		t.Errorf("group.retries = %d, want 3 (explicit key wins over merge)", n)
	}
	if _, ok := group.Lookup("interval"); !ok {
		t.Error("group.interval not merged from anchor")
	}
}

func TestClone_IsDeepButSharesInstances(t *testing.T) {
	w := &widget{id: 7}
	orig := Mapping().
		Put("inner", Mapping().Put("x", Number(1))).
		Put("obj", Instance(w))

	cp := orig.Clone()
	inner, _ := cp.Lookup("inner")
	inner.Put("x", Number(2))

	origInner, _ := orig.Lookup("inner")
	if x, _ := origInner.Lookup("x"); x.String() != "1" {
		t.Errorf("Clone() shares containers: original x = %s", x)
	}

	obj, _ := cp.Lookup("obj")
	got, _ := obj.AsInstance()
	if got != w {
		t.Error("Clone() copied the instance, want shared pointer")
	}
}

func TestNativeRoundTrip(t *testing.T) {
	src := map[string]any{
		"name":  "soil",
		"count": 3,
		"tags":  []any{"a", true},
	}
	v := FromNative(src)
	if v.Kind() != KindMapping {
		t.Fatalf("FromNative() kind = %s, want mapping", v.Kind())
	}

	native, ok := v.Native().(map[string]any)
	if !ok {
		t.Fatalf("Native() type = %T, want map[string]any", v.Native())
	}
	if native["count"] != float64(3) {
		t.Errorf("count = %v, want 3", native["count"])
	}
	tags, _ := native["tags"].([]any)
	if len(tags) != 2 || tags[1] != true {
		t.Errorf("tags = %v", native["tags"])
	}
}

func TestFromNative_UnknownTypeIsInstance(t *testing.T) {
	w := &widget{id: 1}
	v := FromNative(w)
	if v.Kind() != KindInstance {
		t.Fatalf("Kind() = %s, want instance", v.Kind())
	}
	if got, _ := v.AsInstance(); got != w {
		t.Error("AsInstance() returned a different object")
	}
}

func TestNilValueIsNull(t *testing.T) {
	var v *Value
	if !v.IsNull() || v.Len() != 0 {
		t.Error("nil *Value should behave as an empty Null")
	}
	if _, ok := v.Lookup("x"); ok {
		t.Error("Lookup on nil *Value should fail")
	}
}

func TestMarshalJSON(t *testing.T) {
	v := Mapping().
		Put("b", Sequence(Number(1), String("x"))).
		Put("a", Null()).
		Put("obj", Instance(&widget{}))

	got, err := v.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	want := `{"b":[1,"x"],"a":null,"obj":"<*pathvalue.widget>"}`
	if string(got) != want {
		t.Errorf("MarshalJSON() = %s, want %s", got, want)
	}
}
