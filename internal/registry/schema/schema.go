// Package schema embeds the JSON Schema for package entries documents.
package schema

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// EntriesID is the resource identifier the entries schema is compiled under.
const EntriesID = "entries.schema.json"

//go:embed entries.schema.json
var entriesJSON []byte

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// Entries returns the compiled entries schema.
func Entries() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(entriesJSON))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal entries schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(EntriesID, doc); err != nil {
			compileErr = fmt.Errorf("add entries schema resource: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile(EntriesID)
	})
	return compiled, compileErr
}

// Raw returns the schema document.
func Raw() []byte {
	out := make([]byte, len(entriesJSON))
	copy(out, entriesJSON)
	return out
}
