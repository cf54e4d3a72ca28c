// Package migrations embeds the SQL migration files into the binary so the
// Pi can create its readings database without the .sql files on disk.
package migrations

import (
	"embed"

	"github.com/nerrad567/piplant-core/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
