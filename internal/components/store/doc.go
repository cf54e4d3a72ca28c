// Package store provides the database drivers that persist sensor readings
// and light events.
//
// Registered module paths:
//
//	database.driver.sqlite3.driver   SQLite file, schema managed by migrations
//	database.driver.sqlite3.mock     the same store on a private in-memory database
//	database.driver.mock             slice-backed store with no SQL at all
//
// The SQLite stores open through internal/infrastructure/database and apply
// the embedded migrations on construction, so a fresh Pi gets its schema on
// first start.
package store
