package notices

import "embed"

// MigrationsFS contains SQL migrations for both PostgreSQL and SQLite.
//
// The migrations are organized in a dialect-aware structure:
//   - Root files (data/sql/migrations/*.sql) contain PostgreSQL migrations
//   - SQLite overrides are in data/sql/migrations/sqlite/*.sql
//
// Usage:
//
//	import "io/fs"
//	import notices "github.com/goliatone/go-notices"
//
//	migrationsFS, _ := fs.Sub(notices.GetMigrationsFS(), "data/sql/migrations")
//	client.RegisterDialectMigrations(migrationsFS)
//
//go:embed data/sql/migrations
var MigrationsFS embed.FS

// GetMigrationsFS exposes the SQL migration files so host applications can
// register them with their migration runner.
func GetMigrationsFS() embed.FS {
	return MigrationsFS
}
