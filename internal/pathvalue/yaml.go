package pathvalue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FromYAML converts a decoded YAML node into a tree.
//
// Aliases are expanded and merge keys ("<<") are applied. Scalars are typed by
// their resolved tag; tags other than null, bool, int and float become strings.
// Mapping keys must be scalars.
func FromYAML(node *yaml.Node) (*Value, error) {
	if node == nil {
		return Null(), nil
	}
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null(), nil
		}
		return FromYAML(node.Content[0])
	case yaml.AliasNode:
		return FromYAML(node.Alias)
	case yaml.ScalarNode:
		return scalarFromYAML(node)
	case yaml.SequenceNode:
		seq := Sequence()
		for _, item := range node.Content {
			v, err := FromYAML(item)
			if err != nil {
				return nil, err
			}
			seq.Append(v)
		}
		return seq, nil
	case yaml.MappingNode:
		m := Mapping()
		for i := 0; i+1 < len(node.Content); i += 2 {
			k, vn := node.Content[i], node.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("%w: non-scalar mapping key at line %d", ErrUnsupportedNode, k.Line)
			}
			v, err := FromYAML(vn)
			if err != nil {
				return nil, err
			}
			if k.ShortTag() == "!!merge" {
				if err := merge(m, v, k.Line); err != nil {
					return nil, err
				}
				continue
			}
			m.Put(k.Value, v)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%w: kind %d at line %d", ErrUnsupportedNode, node.Kind, node.Line)
	}
}

// merge applies a YAML merge value without overriding keys already set.
func merge(dst, src *Value, line int) error {
	switch src.Kind() {
	case KindMapping:
		for _, k := range src.keys {
			if _, exists := dst.pairs[k]; !exists {
				dst.Put(k, src.pairs[k])
			}
		}
		return nil
	case KindSequence:
		for _, item := range src.items {
			if err := merge(dst, item, line); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: merge of %s at line %d", ErrUnsupportedNode, src.Kind(), line)
	}
}

func scalarFromYAML(node *yaml.Node) (*Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return Bool(b), nil
	case "!!int":
		var n int64
		if err := node.Decode(&n); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return Number(float64(n)), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return Number(f), nil
	default:
		return String(node.Value), nil
	}
}

// UnmarshalYAML implements yaml.Unmarshaler so a *Value can sit directly in
// a config struct.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	decoded, err := FromYAML(node)
	if err != nil {
		return err
	}
	*v = *decoded
	return nil
}

// MarshalJSON renders the tree as JSON. Mapping keys keep insertion order and
// instances are rendered as their Go type name.
func (v *Value) MarshalJSON() ([]byte, error) {
	switch v.Kind() {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return []byte(strconv.FormatBool(v.b)), nil
	case KindNumber:
		return json.Marshal(v.num)
	case KindString:
		return marshalString(v.str)
	case KindInstance:
		return marshalString(fmt.Sprintf("<%T>", v.inst))
	case KindSequence:
		buf := []byte{'['}
		for i, item := range v.items {
			if i > 0 {
				buf = append(buf, ',')
			}
			b, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf = append(buf, b...)
		}
		return append(buf, ']'), nil
	default:
		buf := []byte{'{'}
		for i, k := range v.keys {
			if i > 0 {
				buf = append(buf, ',')
			}
			kb, err := marshalString(k)
			if err != nil {
				return nil, err
			}
			buf = append(buf, kb...)
			buf = append(buf, ':')
			b, err := v.pairs[k].MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf = append(buf, b...)
		}
		return append(buf, '}'), nil
	}
}

// marshalString encodes s as a JSON string without HTML escaping.
func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}
