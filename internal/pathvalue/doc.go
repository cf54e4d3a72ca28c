// Package pathvalue provides a small tagged-value tree for configuration data
// and key-path operations over it.
//
// Configuration documents (YAML, JSON, HCL) are decoded into a *Value tree whose
// nodes are one of Null, Bool, Number, String, Sequence, Mapping or Instance.
// The Instance kind carries an opaque, already-constructed Go object; it is how
// resolved packages are spliced back into configuration trees.
//
// # Paths
//
// A Path addresses a node by a sequence of mapping keys and sequence indexes:
//
//	p := pathvalue.Path{pathvalue.Key("sensors"), pathvalue.Index(0), pathvalue.Key("package_ref")}
//	p.String() // sensors[0].package_ref
//
// # Operations
//
//   - FindPathsToKey: every leaf path that passes through one of the given keys
//   - Get, Set, Delete: explicit error results instead of missing-key panics
//
// Mapping keys keep their insertion order so that walks are deterministic.
//
// # Thread Safety
//
// A Value is not safe for concurrent mutation. Trees are built and rewritten
// during startup on a single goroutine; read-only sharing afterwards is safe.
package pathvalue
