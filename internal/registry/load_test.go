package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nerrad567/piplant-core/internal/pathvalue"
)

const entriesYAML = `
entries:
  - name: db
    package:
      module: database.driver.sqlite3.driver
      kwargs:
        path: ./data/piplant.db
  - name: soil
    package:
      module: sensor.hygrometer.aideepen.capacitivehygrometer
      remote_module: vendor.hygrometer.capacitive
      kwargs:
        mock: true
        adc_channel: 3
        store:
          package_ref: db
  - name: lights
    package:
      module: light.device_group.mock
      mock: true
`

const entriesHCL = `
package "db" {
  module = "database.driver.sqlite3.driver"
  kwargs = { path = "./data/piplant.db" }
}

package "group" {
  module = "light.device_group.mock"
  kwargs = {
    devices = { package_refs = ["porch", "hall"] }
    retries = 5
  }
}

package "porch" {
  module = "light.device.mock"
}

package "hall" {
  module = "light.device.mock"
  mock   = true
}
`

func TestParseEntries_YAML(t *testing.T) {
	entries, err := ParseEntries([]byte(entriesYAML), "packages.yaml", FormatYAML)
	if err != nil {
		t.Fatalf("ParseEntries() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	db := entries[0]
	if db.Name != "db" || db.Module.String() != "database.driver.sqlite3.driver" {
		t.Errorf("db entry = %+v", db)
	}
	if !db.RemoteModule.IsZero() || db.Mock {
		t.Errorf("db should have no remote module or mock: %+v", db)
	}

	soil := entries[1]
	if soil.RemoteModule.String() != "vendor.hygrometer.capacitive" {
		t.Errorf("soil remote module = %q", soil.RemoteModule)
	}
	if !soil.Mock {
		t.Error("soil.Mock should follow kwargs.mock")
	}
	deps, err := References(soil.Kwargs)
	if err != nil || len(deps) != 1 || deps[0] != "db" {
		t.Errorf("References(soil) = %v, %v", deps, err)
	}

	if !entries[2].Mock {
		t.Error("lights.Mock should follow package.mock")
	}
	if entries[2].Kwargs.Kind() != pathvalue.KindMapping {
		t.Error("missing kwargs should decode to an empty mapping")
	}
}

func TestParseEntries_JSON(t *testing.T) {
	doc := `{"entries": [{"name": "db", "package": {"module": "database.driver.mock", "kwargs": {"rows": 2}}}]}`
	entries, err := ParseEntries([]byte(doc), "packages.json", FormatJSON)
	if err != nil {
		t.Fatalf("ParseEntries() error = %v", err)
	}
	rows, _ := entries[0].Kwargs.Lookup("rows")
	if n, _ := rows.AsInt(); n != 2 {
		t.Errorf("rows = %s, want 2", rows)
	}
}

func TestParseEntries_HCL(t *testing.T) {
	entries, err := ParseEntries([]byte(entriesHCL), "packages.hcl", FormatHCL)
	if err != nil {
		t.Fatalf("ParseEntries() error = %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(entries))
	}

	group := entries[1]
	deps, err := References(group.Kwargs)
	if err != nil {
		t.Fatalf("References(group) error = %v", err)
	}
	if len(deps) != 2 || deps[0] != "porch" || deps[1] != "hall" {
		t.Errorf("group references = %v, want [porch hall]", deps)
	}
	retries, _ := group.Kwargs.Lookup("retries")
	if n, _ := retries.AsInt(); n != 5 {
		t.Errorf("retries = %s, want 5", retries)
	}
	if !entries[3].Mock {
		t.Error("hall.Mock = false, want true")
	}

	order, err := BuildOrder(entries)
	if err != nil {
		t.Fatalf("BuildOrder() error = %v", err)
	}
	want := []string{"db", "porch", "hall", "group"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("BuildOrder() = %v, want %v", order, want)
		}
	}
}

func TestParseEntries_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing entries", "packages: []\n"},
		{"missing name", "entries:\n  - package: {module: a.b}\n"},
		{"bare module", "entries:\n  - name: x\n    package: {module: nodots}\n"},
		{"unknown package key", "entries:\n  - name: x\n    package: {module: a.b, class: Foo}\n"},
		{"list kwargs", "entries:\n  - name: x\n    package: {module: a.b, kwargs: [1]}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEntries([]byte(tt.doc), "bad.yaml", FormatYAML)
			if !errors.Is(err, ErrConfig) {
				t.Errorf("ParseEntries() error = %v, want ErrConfig", err)
			}
		})
	}
}

func TestLoadEntries_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "packages.yml")
	if err := os.WriteFile(path, []byte(entriesYAML), 0600); err != nil {
		t.Fatalf("failed to write entries file: %v", err)
	}

	entries, err := LoadEntries(path)
	if err != nil {
		t.Fatalf("LoadEntries() error = %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("got %d entries, want 3", len(entries))
	}

	if _, err := LoadEntries(filepath.Join(dir, "packages.toml")); !errors.Is(err, ErrConfig) {
		t.Errorf("LoadEntries(.toml) error = %v, want ErrConfig", err)
	}
	if _, err := LoadEntries(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("LoadEntries(missing) expected error")
	}
}
