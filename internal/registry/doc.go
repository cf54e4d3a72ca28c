// Package registry resolves declared package entries into live instances.
//
// An entry names a component, the module path of its implementation and the
// keyword arguments to build it with. Arguments may reference other entries
// by name anywhere in the tree:
//
//	entries:
//	  - name: db
//	    package:
//	      module: database.driver.sqlite3.driver
//	      kwargs: {path: ./data/piplant.db}
//	  - name: soil
//	    package:
//	      module: sensor.hygrometer.aideepen.capacitivehygrometer
//	      kwargs:
//	        store: {package_ref: db}
//
// # Resolution pass
//
// ImportPackages runs exactly once:
//
//  1. BuildOrder computes one global order in which every entry follows the
//     entries it references. Unknown names fail with *NotFoundError and any
//     dependency loop with *CircularDependencyError.
//  2. For each entry in that order, its kwargs are copied and every marker is
//     replaced with the instance already built for it (see Embed).
//  3. The component.Loader constructs the entry from the embedded kwargs.
//
// The first failure aborts the pass. Instances become visible only after the
// whole pass succeeds; from then on the Instances view is immutable.
//
// # State machine
//
//	Empty ──Register──▶ EntriesLoaded ──ImportPackages──▶ Ordered ──▶ Instantiated
//
// Transitions happen once and never go back.
//
// # Entries files
//
// LoadEntries accepts YAML, JSON and HCL. Every form is converted to the YAML
// document shape and validated against the embedded JSON Schema before
// decoding.
package registry
