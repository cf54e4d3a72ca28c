package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/nerrad567/piplant-core/internal/infrastructure/database"
)

// newMigrateCmd groups the schema commands for the SQLite file at
// database.path. The sqlite3 store packages migrate on open; these
// commands are for inspecting or rolling back a Pi's database by hand.
func newMigrateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the SQLite schema at database.path",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(
		newMigrateStepCmd(opts, "up", "Apply every pending migration", (*database.DB).Migrate),
		newMigrateStepCmd(opts, "down", "Roll back the most recent migration", (*database.DB).MigrateDown),
		newMigrateStepCmd(opts, "status", "List applied and pending migrations", nil),
	)
	return cmd
}

// newMigrateStepCmd opens the database, runs apply (if any) and prints the
// resulting migration table.
func newMigrateStepCmd(opts *options, use, short string, apply func(*database.DB, context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts, false)
			if err != nil {
				return err
			}
			db, err := database.Open(database.ConfigFrom(cfg.Database))
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck // read-only after apply

			ctx := cmd.Context()
			if apply != nil {
				if err := apply(db, ctx); err != nil {
					return fmt.Errorf("migrate %s: %w", use, err)
				}
			}
			return renderMigrations(ctx, cmd.OutOrStdout(), db)
		},
	}
}

// renderMigrations prints applied migrations oldest first, then pending ones.
func renderMigrations(ctx context.Context, w io.Writer, db *database.DB) error {
	applied, pending, err := db.GetMigrationStatus(ctx)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Version", "Name", "State"})
	for _, m := range applied {
		t.AppendRow(table.Row{m.Version, m.Name, "applied " + m.AppliedAt.Format(time.RFC3339)})
	}
	for _, m := range pending {
		t.AppendRow(table.Row{m.Version, m.Name, "pending"})
	}
	t.Render()
	return nil
}
