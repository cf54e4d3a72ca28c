package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/piplant-core/internal/component"
	"github.com/nerrad567/piplant-core/internal/infrastructure/config"
	"github.com/nerrad567/piplant-core/internal/infrastructure/database"
	"github.com/nerrad567/piplant-core/internal/plant"

	_ "github.com/nerrad567/piplant-core/migrations" // schema for sensor_readings and light_events
)

// timeFormat keeps lexical order equal to time order in TEXT columns.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// SQLite stores readings in the sensor_readings table.
//
// Thread Safety: safe for concurrent use; the underlying pool holds a single
// connection.
type SQLite struct {
	db *database.DB

	closeOnce sync.Once
	closeErr  error
}

// NewSQLite opens the database described by cfg and applies pending
// migrations.
func NewSQLite(ctx context.Context, cfg database.Config) (*SQLite, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("migrating %s: %w", cfg.Path, err)
	}
	return &SQLite{db: db}, nil
}

// DB exposes the underlying connection for health checks.
func (s *SQLite) DB() *database.DB { return s.db }

// SaveReadings inserts readings in one transaction. Readings without an ID
// are given a random UUID; invalid readings abort the whole batch.
func (s *SQLite) SaveReadings(ctx context.Context, readings []plant.Reading) error {
	if len(readings) == 0 {
		return nil
	}
	for _, r := range readings {
		if err := r.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sensor_readings (id, sensor, sensor_type, quantity, value, unit, taken_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range readings {
		id := r.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx, id, r.Sensor, string(r.Type), r.Quantity, r.Value, r.Unit,
			r.Time.UTC().Format(timeFormat)); err != nil {
			return fmt.Errorf("inserting reading %s/%s: %w", r.Sensor, r.Quantity, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing readings: %w", err)
	}
	return nil
}

// Readings returns stored readings matching q, newest first.
func (s *SQLite) Readings(ctx context.Context, q plant.Query) ([]plant.Reading, error) {
	var (
		where []string
		args  []any
	)
	if q.Sensor != "" {
		where = append(where, "sensor = ?")
		args = append(args, q.Sensor)
	}
	if q.Type != "" {
		where = append(where, "sensor_type = ?")
		args = append(args, string(q.Type))
	}
	if !q.Since.IsZero() {
		where = append(where, "taken_at >= ?")
		args = append(args, q.Since.UTC().Format(timeFormat))
	}

	query := "SELECT id, sensor, sensor_type, quantity, value, unit, taken_at FROM sensor_readings"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY taken_at DESC, rowid DESC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}
	defer rows.Close()

	var out []plant.Reading
	for rows.Next() {
		var (
			r       plant.Reading
			typ     string
			takenAt string
		)
		if err := rows.Scan(&r.ID, &r.Sensor, &typ, &r.Quantity, &r.Value, &r.Unit, &takenAt); err != nil {
			return nil, fmt.Errorf("scanning reading: %w", err)
		}
		r.Type = plant.SensorType(typ)
		if r.Time, err = time.Parse(timeFormat, takenAt); err != nil {
			return nil, fmt.Errorf("parsing taken_at %q: %w", takenAt, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating readings: %w", err)
	}
	return out, nil
}

// SaveLightEvent records a light being switched.
func (s *SQLite) SaveLightEvent(ctx context.Context, ev plant.LightEvent) error {
	id := ev.ID
	if id == "" {
		id = uuid.NewString()
	}
	state := "off"
	if ev.On {
		state = "on"
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO light_events (id, light, state, reason, changed_at) VALUES (?, ?, ?, ?, ?)",
		id, ev.Light, state, ev.Reason, ev.Time.UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("inserting light event for %s: %w", ev.Light, err)
	}
	return nil
}

// LightEvents returns recorded events for light, newest first. An empty
// light returns every event.
func (s *SQLite) LightEvents(ctx context.Context, light string) ([]plant.LightEvent, error) {
	query := "SELECT id, light, state, reason, changed_at FROM light_events"
	var args []any
	if light != "" {
		query += " WHERE light = ?"
		args = append(args, light)
	}
	query += " ORDER BY changed_at DESC, rowid DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying light events: %w", err)
	}
	defer rows.Close()

	var out []plant.LightEvent
	for rows.Next() {
		var ev plant.LightEvent
		var state, changedAt string
		if err := rows.Scan(&ev.ID, &ev.Light, &state, &ev.Reason, &changedAt); err != nil {
			return nil, fmt.Errorf("scanning light event: %w", err)
		}
		ev.On = state == "on"
		if ev.Time, err = time.Parse(timeFormat, changedAt); err != nil {
			return nil, fmt.Errorf("parsing changed_at %q: %w", changedAt, err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// Close closes the database. Safe to call more than once.
func (s *SQLite) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}

// sqliteConfig applies kwargs (path, wal_mode, busy_timeout) on top of the
// site database settings.
func sqliteConfig(base config.DatabaseConfig, args component.Args) (database.Config, error) {
	cfg := database.ConfigFrom(base)
	cfg.Path = args.String("path", cfg.Path)
	cfg.WALMode = args.Switch("wal_mode", cfg.WALMode)
	cfg.BusyTimeout = int(args.Duration("busy_timeout", time.Duration(cfg.BusyTimeout)*time.Second) / time.Second)
	if err := args.Err(); err != nil {
		return cfg, err
	}
	if cfg.Path == "" {
		return cfg, fmt.Errorf("sqlite3: path is required")
	}
	return cfg, nil
}

func newSQLite(ctx context.Context, args component.Args) (any, error) {
	cfg, err := sqliteConfig(config.FromContext(ctx).Database, args)
	if err != nil {
		return nil, err
	}
	return NewSQLite(ctx, cfg)
}

// newSQLiteMock ignores path and opens a private in-memory database.
func newSQLiteMock(ctx context.Context, args component.Args) (any, error) {
	cfg, err := sqliteConfig(config.FromContext(ctx).Database, args)
	if err != nil {
		return nil, err
	}
	cfg.Path = database.MemoryPath
	return NewSQLite(ctx, cfg)
}
