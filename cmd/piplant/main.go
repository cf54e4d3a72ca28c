// PiPlant Core - plant monitoring for the Raspberry Pi
//
// This is the main entry point. The binary reads config.yaml, resolves the
// package entries file into live components (sensors, store, telemetry
// sinks, lights) and runs the monitoring loop until interrupted.
//
// Subcommands:
//
//	piplant run       resolve the packages and monitor (default)
//	piplant order     print the build order and the module each entry resolves to
//	piplant graph     print the package dependency graph
//	piplant validate  check config.yaml and the entries file without building anything
//	piplant version   print build information
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on Ctrl+C and SIGTERM so the monitor and API shut down cleanly.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1) //nolint:gocritic // cancel called above
	}
}

// getConfigPath returns the configuration file path.
// Uses PIPLANT_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("PIPLANT_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
