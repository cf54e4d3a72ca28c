package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
	"gopkg.in/yaml.v3"

	"github.com/nerrad567/piplant-core/internal/modulepath"
	"github.com/nerrad567/piplant-core/internal/pathvalue"
	"github.com/nerrad567/piplant-core/internal/registry/schema"
)

// Format is an entries document encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
	FormatHCL
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return 0, fmt.Errorf("%w: unsupported entries file extension %q", ErrConfig, filepath.Ext(path))
	}
}

// LoadEntries reads, validates and decodes an entries file.
func LoadEntries(path string) ([]Entry, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("reading entries file: %w", err)
	}
	return ParseEntries(data, path, format)
}

// ParseEntries validates and decodes an entries document. filename is used
// in diagnostics only.
func ParseEntries(data []byte, filename string, format Format) ([]Entry, error) {
	var (
		doc *pathvalue.Value
		err error
	)
	switch format {
	case FormatHCL:
		doc, err = decodeHCL(data, filename)
	default:
		// JSON is a subset of YAML.
		doc, err = decodeYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfig, filename, err)
	}

	if err := ValidateDocument(doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfig, filename, err)
	}
	return EntriesFromDocument(doc)
}

func decodeYAML(data []byte) (*pathvalue.Value, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	return pathvalue.FromYAML(&node)
}

// ValidateDocument checks doc against the embedded entries schema.
func ValidateDocument(doc *pathvalue.Value) error {
	sch, err := schema.Entries()
	if err != nil {
		return err
	}
	return sch.Validate(doc.Native())
}

// EntriesFromDocument converts a validated entries document into entries.
func EntriesFromDocument(doc *pathvalue.Value) ([]Entry, error) {
	list, _ := doc.Lookup("entries")
	entries := make([]Entry, 0, list.Len())
	for i, item := range list.Items() {
		e, err := entryFromValue(item)
		if err != nil {
			return nil, &ConfigError{Entry: fmt.Sprintf("#%d", i), Reason: err.Error()}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func entryFromValue(item *pathvalue.Value) (Entry, error) {
	var e Entry
	if v, ok := item.Lookup("name"); ok {
		e.Name, _ = v.AsString()
	}
	pkg, ok := item.Lookup("package")
	if !ok {
		return Entry{}, fmt.Errorf("missing package")
	}

	raw, _ := pkg.Lookup("module")
	module, _ := raw.AsString()
	p, err := modulepath.Parse(module)
	if err != nil {
		return Entry{}, err
	}
	e.Module = p

	if v, ok := pkg.Lookup("remote_module"); ok && !v.IsNull() {
		remote, _ := v.AsString()
		p, err := modulepath.Parse(remote)
		if err != nil {
			return Entry{}, err
		}
		e.RemoteModule = p
	}
	if v, ok := pkg.Lookup("mock"); ok {
		e.Mock, _ = v.AsBool()
	}

	e.Kwargs = pathvalue.Mapping()
	if v, ok := pkg.Lookup("kwargs"); ok && v.Kind() == pathvalue.KindMapping {
		e.Kwargs = v.Clone()
	}
	if !e.Mock {
		e.Mock = mockRequested(e.Kwargs)
	}
	return e, nil
}

// hclFile is the HCL entries form:
//
//	package "db" {
//	  module = "database.driver.sqlite3.driver"
//	  kwargs = { path = "./data/piplant.db" }
//	}
type hclFile struct {
	Packages []hclPackage `hcl:"package,block"`
}

type hclPackage struct {
	Name         string    `hcl:"name,label"`
	Module       string    `hcl:"module"`
	RemoteModule *string   `hcl:"remote_module,optional"`
	Mock         *bool     `hcl:"mock,optional"`
	Kwargs       cty.Value `hcl:"kwargs,optional"`
}

// decodeHCL turns an HCL entries file into the same document shape as the
// YAML form, so both go through one schema.
func decodeHCL(data []byte, filename string) (*pathvalue.Value, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, diags
	}

	var decoded hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &decoded); diags.HasErrors() {
		return nil, diags
	}

	list := pathvalue.Sequence()
	for _, p := range decoded.Packages {
		pkg := pathvalue.Mapping().Put("module", pathvalue.String(p.Module))
		if p.RemoteModule != nil {
			pkg.Put("remote_module", pathvalue.String(*p.RemoteModule))
		}
		if p.Mock != nil {
			pkg.Put("mock", pathvalue.Bool(*p.Mock))
		}
		if !p.Kwargs.IsNull() {
			kwargs, err := ctyToValue(p.Kwargs)
			if err != nil {
				return nil, fmt.Errorf("package %q kwargs: %w", p.Name, err)
			}
			pkg.Put("kwargs", kwargs)
		}
		list.Append(pathvalue.Mapping().
			Put("name", pathvalue.String(p.Name)).
			Put("package", pkg))
	}
	return pathvalue.Mapping().Put("entries", list), nil
}

// ctyToValue converts an HCL value into a tree. Object attributes come out in
// cty's lexical order.
func ctyToValue(v cty.Value) (*pathvalue.Value, error) {
	if v.IsNull() || !v.IsKnown() {
		return pathvalue.Null(), nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return pathvalue.String(v.AsString()), nil

	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("converting number: %w", err)
		}
		return pathvalue.Number(f), nil

	case ty == cty.Bool:
		return pathvalue.Bool(v.True()), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		seq := pathvalue.Sequence()
		it := v.ElementIterator()
		for it.Next() {
			_, elem := it.Element()
			item, err := ctyToValue(elem)
			if err != nil {
				return nil, err
			}
			seq.Append(item)
		}
		return seq, nil

	case ty.IsObjectType() || ty.IsMapType():
		m := pathvalue.Mapping()
		it := v.ElementIterator()
		for it.Next() {
			key, elem := it.Element()
			item, err := ctyToValue(elem)
			if err != nil {
				return nil, fmt.Errorf("in attribute %q: %w", key.AsString(), err)
			}
			m.Put(key.AsString(), item)
		}
		return m, nil

	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
