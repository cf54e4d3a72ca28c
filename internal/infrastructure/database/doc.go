// Package database provides SQLite database connectivity for PiPlant Core.
//
// This package manages:
//   - Database connection with WAL mode for concurrent access
//   - In-memory databases for mocks and tests (Path ":memory:")
//   - Schema migrations applied in version order
//   - Connection pooling and lifecycle management
//
// Security Considerations:
//   - All queries use parameterised statements
//   - Database file permissions are set to 0600 (owner read/write only)
//
// Usage:
//
//	db, err := database.Open(database.ConfigFrom(cfg.Database))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Migration Strategy:
//
// Migration files are named YYYYMMDD_HHMMSS_description.up.sql with an
// optional matching .down.sql, and are embedded by the migrations package.
// Migrations are additive: new columns must be NULLABLE or have defaults.
package database
