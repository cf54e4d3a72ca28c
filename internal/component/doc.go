// Package component selects and constructs component implementations by
// module path.
//
// Implementations are not discovered at runtime. Each component package
// registers a Factory for its module path from init(), and the binary
// blank-imports every component package it ships:
//
//	import _ "github.com/nerrad567/piplant-core/internal/components/all"
//
// # Resolution
//
// A Loader picks one factory for a Reference using a fixed precedence:
//
//  1. Per-entry custom mock: <module parent>.mock, e.g.
//     sensor.hygrometer.aideepen.mock. If it is missing the loader logs a
//     warning and carries on as if no mock had been requested.
//  2. Global mock mode: <module grandparent>.mock, the shared mock of the
//     package family, e.g. sensor.hygrometer.mock.
//  3. The entry's remote_module when set, otherwise its module.
//
// Lookup fails with *ModuleNotFoundError when nothing is registered at or
// below the path, and with *ClassNotFoundError when the path only names a
// namespace of other factories.
//
// # Arguments
//
// Factories receive their kwargs as Args, which offers typed accessors with
// defaults (including human durations such as "2m" and on/off switches) and
// collects shape errors for a single Err check.
package component
