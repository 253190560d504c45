package migrations_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"testing/fstest"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-notices/migrations"
)

func TestMigrationsApplyToSQLite(t *testing.T) {
	t.Parallel()

	db := openSQLite(t)
	ctx := context.Background()
	require.NotEmpty(t, migrations.Filesystems(), "expected embedded migrations to be registered")

	require.NoError(t, migrations.Apply(ctx, db, "sqlite3"))
	require.NoError(t, migrations.ValidateSchema(ctx, db, "sqlite3"))
}

func TestMigrationsApplyIsRepeatable(t *testing.T) {
	t.Parallel()

	db := openSQLite(t)
	ctx := context.Background()
	require.NoError(t, migrations.Apply(ctx, db, "sqlite"))
	require.NoError(t, migrations.Apply(ctx, db, "sqlite"))
}

func TestFilesPrefersSQLiteOverrides(t *testing.T) {
	fsys := fstest.MapFS{
		"000001_notice_options.sql":        {Data: []byte("-- pg\n")},
		"000002_extra.sql":                 {Data: []byte("-- pg only\n")},
		"sqlite/000001_notice_options.sql": {Data: []byte("-- sqlite\n")},
	}

	sqliteFiles, err := migrations.Files(fsys, "sqlite3")
	require.NoError(t, err)
	require.Equal(t, []string{"sqlite/000001_notice_options.sql", "000002_extra.sql"}, paths(sqliteFiles))

	pgFiles, err := migrations.Files(fsys, "postgresql")
	require.NoError(t, err)
	require.Equal(t, []string{"000001_notice_options.sql", "000002_extra.sql"}, paths(pgFiles))

	_, err = migrations.Files(fsys, "mysql")
	require.Error(t, err)
}

func TestValidateSchemaReportsMissingTables(t *testing.T) {
	t.Parallel()

	db := openSQLite(t)
	err := migrations.ValidateSchema(context.Background(), db, "sqlite3")
	require.Error(t, err)

	var schemaErr *migrations.SchemaValidationError
	require.True(t, errors.As(err, &schemaErr))
	require.Equal(t, []string{"notice_options"}, schemaErr.MissingTables)
}

func TestValidateSchemaRejectsUnknownDialect(t *testing.T) {
	t.Parallel()

	db := openSQLite(t)
	require.Error(t, migrations.ValidateSchema(context.Background(), db, "mysql"))
}

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func paths(files []migrations.File) []string {
	out := make([]string, 0, len(files))
	for _, file := range files {
		out = append(out, file.Path)
	}
	return out
}
