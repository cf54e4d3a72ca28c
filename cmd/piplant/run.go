package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/nerrad567/piplant-core/internal/api"
	"github.com/nerrad567/piplant-core/internal/infrastructure/config"
	"github.com/nerrad567/piplant-core/internal/infrastructure/logging"
	"github.com/nerrad567/piplant-core/internal/monitor"
	"github.com/nerrad567/piplant-core/internal/registry"
)

// errNoApp is returned by run when config.yaml has no app section.
var errNoApp = errors.New("config has no app section: nothing to monitor")

// run is the application lifecycle, separated from the cobra wiring for
// testability.
//
// It loads the configuration, imports every package in dependency order,
// decodes the app section against the built instances and runs the monitor
// (and the status API when enabled) until ctx is cancelled. Instances that
// implement io.Closer are closed in reverse build order on the way out.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//   - opts: Persistent flag values
//   - mockSet: Whether --mock was given explicitly
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context, opts *options, mockSet bool) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting PiPlant Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, reg, err := loadRegistry(opts, mockSet)
	if err != nil {
		return err
	}
	if cfg.App == nil || cfg.App.IsNull() {
		return errNoApp
	}

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("configuration loaded",
		"path", opts.configPath,
		"packages", cfg.Packages.File,
		"mock", cfg.Packages.Mock,
	)

	// Factories read site-wide settings and the logger from the context.
	ctx = config.NewContext(ctx, cfg)
	ctx = logging.NewContext(ctx, log)

	reg.SetLogger(log.Component("registry"))
	reg.Loader().SetLogger(log.Component("loader"))
	if err := reg.ImportPackages(ctx, cfg.Packages.Mock); err != nil {
		return fmt.Errorf("importing packages: %w", err)
	}
	defer closeInstances(reg, log)
	log.Info("packages imported", "order", reg.Order())

	app, err := reg.Embed(cfg.App)
	if err != nil {
		return fmt.Errorf("embedding app references: %w", err)
	}
	monCfg, err := monitor.Decode(app, cfg.Monitor.PollInterval)
	if err != nil {
		return fmt.Errorf("decoding app: %w", err)
	}
	mon, err := monitor.New(monCfg, log.Component("monitor"))
	if err != nil {
		return fmt.Errorf("creating monitor: %w", err)
	}

	if cfg.API.Enabled {
		srv, err := api.New(api.Deps{
			Config:   cfg.API,
			Logger:   log.Component("api"),
			Registry: reg,
			Monitor:  mon,
			Store:    monCfg.Store,
			Version:  version,
		})
		if err != nil {
			return fmt.Errorf("creating API server: %w", err)
		}
		if err := srv.Start(ctx); err != nil {
			return fmt.Errorf("starting API server: %w", err)
		}
		defer func() {
			if closeErr := srv.Close(); closeErr != nil {
				log.Error("error closing API server", "error", closeErr)
			}
		}()
	} else {
		log.Info("API server disabled")
	}

	log.Info("initialisation complete, monitoring until shutdown signal")
	if err := mon.Run(ctx); err != nil {
		return fmt.Errorf("running monitor: %w", err)
	}

	log.Info("PiPlant Core stopped")
	return nil
}

// closeInstances closes every instance implementing io.Closer, dependents
// before their dependencies.
func closeInstances(reg *registry.Registry, log *logging.Logger) {
	in, err := reg.Instances()
	if err != nil {
		return
	}
	for _, name := range slices.Backward(in.Names()) {
		obj, _ := in.Get(name)
		c, ok := obj.(io.Closer)
		if !ok {
			continue
		}
		log.Info("closing package", "package", name)
		if err := c.Close(); err != nil {
			log.Error("error closing package", "package", name, "error", err)
		}
	}
}
