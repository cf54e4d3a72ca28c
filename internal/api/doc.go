// Package api implements the read-only HTTP status API for PiPlant Core.
//
// This package provides:
//   - Health and runtime metrics for the process and the monitor loop
//   - The package registry: entries, build order, state and instance types
//   - The dependency graph rendered as DOT or Mermaid
//   - Recent sensor readings from the configured store
//   - Middleware stack (request ID, logging, recovery)
//
// # Architecture
//
// The server is started after the registry has imported its packages and is
// given the registry, the monitor and the store. Nothing is mutated through
// the API; it is meant for dashboards and for checking a packages file on a
// running Pi.
//
//	GET /api/v1/health
//	GET /api/v1/metrics
//	GET /api/v1/packages
//	GET /api/v1/packages/graph?format=dot|mermaid|json
//	GET /api/v1/readings?sensor=soil&type=hygrometer&since=2h&limit=100
package api
