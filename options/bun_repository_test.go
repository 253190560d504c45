package options

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"

	"github.com/goliatone/go-notices/pkg/types"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func TestOptionRepository_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	applyDDL(t, db)

	repo, err := NewRepository(RepositoryConfig{DB: db})
	require.NoError(t, err)

	userID := uuid.New()

	value, err := repo.GetOption(ctx, types.UserKey(userID), types.DismissedNoticesOption)
	require.NoError(t, err)
	require.Nil(t, value)

	require.NoError(t, repo.SetOption(ctx, types.UserKey(userID), types.DismissedNoticesOption, []string{"welcome"}))
	require.NoError(t, repo.SetOption(ctx, types.UserKey(userID), types.DismissedNoticesOption, []string{"welcome", "upgrade"}))
	require.NoError(t, repo.SetOption(ctx, types.GlobalKey(), types.DismissedNoticesOption, []string{"maintenance"}))

	userValue, err := repo.GetOption(ctx, types.UserKey(userID), types.DismissedNoticesOption)
	require.NoError(t, err)
	require.Equal(t, []any{"welcome", "upgrade"}, userValue)

	globalValue, err := repo.GetOption(ctx, types.GlobalKey(), types.DismissedNoticesOption)
	require.NoError(t, err)
	require.Equal(t, []any{"maintenance"}, globalValue)

	rows, _, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		if row.ScopeLevel == string(types.DismissUser) {
			require.Equal(t, 2, row.Version)
		}
	}

	require.NoError(t, repo.DeleteOption(ctx, types.UserKey(userID), types.DismissedNoticesOption))
	value, err = repo.GetOption(ctx, types.UserKey(userID), types.DismissedNoticesOption)
	require.NoError(t, err)
	require.Nil(t, value)

	require.NoError(t, repo.DeleteOption(ctx, types.UserKey(userID), types.DismissedNoticesOption))
}

func TestOptionRepository_UserBucketsAreDisjoint(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	applyDDL(t, db)

	repo, err := NewRepository(RepositoryConfig{DB: db})
	require.NoError(t, err)

	alice := uuid.New()
	bob := uuid.New()
	require.NoError(t, repo.SetOption(ctx, types.UserKey(alice), types.DismissedNoticesOption, []string{"a"}))

	value, err := repo.GetOption(ctx, types.UserKey(bob), types.DismissedNoticesOption)
	require.NoError(t, err)
	require.Nil(t, value)
}

func TestOptionRepository_RejectsInvalidKeys(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	applyDDL(t, db)

	repo, err := NewRepository(RepositoryConfig{DB: db})
	require.NoError(t, err)

	err = repo.SetOption(ctx, types.UserKey(uuid.Nil), types.DismissedNoticesOption, []string{"x"})
	require.ErrorIs(t, err, types.ErrUserIDRequired)

	_, err = repo.GetOption(ctx, types.GlobalKey(), "  ")
	require.Error(t, err)
}

func TestNewRepository_RequiresDependency(t *testing.T) {
	_, err := NewRepository(RepositoryConfig{})
	require.Error(t, err)
}

func newTestDB(t *testing.T) *bun.DB {
	sqldb, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		_ = db.Close()
		_ = sqldb.Close()
	})
	return db
}

func applyDDL(t *testing.T, db *bun.DB) {
	content, err := os.ReadFile("../data/sql/migrations/sqlite/000001_notice_options.sql")
	require.NoError(t, err)
	for _, stmt := range splitStatements(string(content)) {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
}

func splitStatements(sql string) []string {
	lines := strings.Split(sql, "\n")
	var builder strings.Builder
	var statements []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		builder.WriteString(line)
		if strings.HasSuffix(line, ";") {
			statements = append(statements, strings.TrimSuffix(builder.String(), ";"))
			builder.Reset()
		} else {
			builder.WriteString(" ")
		}
	}
	if builder.Len() > 0 {
		statements = append(statements, builder.String())
	}
	return statements
}
