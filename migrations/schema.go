package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// SchemaCheck describes a table/column requirement.
type SchemaCheck struct {
	Table   string
	Columns []string
}

// DefaultSchemaChecks captures the columns the option repository relies on.
var DefaultSchemaChecks = []SchemaCheck{
	{
		Table: "notice_options",
		Columns: []string{
			"id",
			"scope_level",
			"user_id",
			"name",
			"value",
			"version",
			"created_at",
			"updated_at",
		},
	},
}

// SchemaOption customizes schema validation.
type SchemaOption func(*schemaConfig)

type schemaConfig struct {
	checks []SchemaCheck
}

// WithSchemaChecks replaces the default checks with a custom list.
func WithSchemaChecks(checks []SchemaCheck) SchemaOption {
	return func(cfg *schemaConfig) {
		cfg.checks = checks
	}
}

// SchemaValidationError summarizes missing tables/columns.
type SchemaValidationError struct {
	MissingTables  []string
	MissingColumns map[string][]string
}

func (e *SchemaValidationError) Error() string {
	if e == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	if len(e.MissingTables) > 0 {
		parts = append(parts, fmt.Sprintf("missing tables: %s", strings.Join(e.MissingTables, ", ")))
	}
	if len(e.MissingColumns) > 0 {
		tableKeys := make([]string, 0, len(e.MissingColumns))
		for table := range e.MissingColumns {
			tableKeys = append(tableKeys, table)
		}
		sort.Strings(tableKeys)
		cols := make([]string, 0, len(tableKeys))
		for _, table := range tableKeys {
			missing := e.MissingColumns[table]
			sort.Strings(missing)
			cols = append(cols, fmt.Sprintf("%s(%s)", table, strings.Join(missing, ", ")))
		}
		parts = append(parts, fmt.Sprintf("missing columns: %s", strings.Join(cols, "; ")))
	}
	if len(parts) == 0 {
		return "notice schema validation failed"
	}
	return "notice schema validation failed: " + strings.Join(parts, "; ")
}

// ValidateSchema ensures the notice tables expose the columns go-notices relies on.
func ValidateSchema(ctx context.Context, db *sql.DB, dialect string, opts ...SchemaOption) error {
	if db == nil {
		return errors.New("migrations: db required")
	}
	normalized, err := normalizeDialect(dialect)
	if err != nil {
		return err
	}

	cfg := schemaConfig{
		checks: DefaultSchemaChecks,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if len(cfg.checks) == 0 {
		return nil
	}

	missingTables := make([]string, 0)
	missingColumns := make(map[string][]string)
	for _, check := range cfg.checks {
		if strings.TrimSpace(check.Table) == "" {
			continue
		}
		cols, err := fetchColumns(ctx, db, normalized, check.Table)
		if err != nil {
			return err
		}
		if len(cols) == 0 {
			missingTables = append(missingTables, check.Table)
			continue
		}
		for _, col := range check.Columns {
			normalizedCol := strings.ToLower(strings.TrimSpace(col))
			if normalizedCol == "" {
				continue
			}
			if !cols[normalizedCol] {
				missingColumns[check.Table] = append(missingColumns[check.Table], normalizedCol)
			}
		}
	}

	if len(missingTables) == 0 && len(missingColumns) == 0 {
		return nil
	}
	sort.Strings(missingTables)
	return &SchemaValidationError{
		MissingTables:  missingTables,
		MissingColumns: missingColumns,
	}
}

func fetchColumns(ctx context.Context, db *sql.DB, dialect, table string) (map[string]bool, error) {
	switch dialect {
	case "postgres":
		return fetchColumnsPostgres(ctx, db, table)
	case "sqlite":
		return fetchColumnsSQLite(ctx, db, table)
	default:
		return nil, fmt.Errorf("migrations: unsupported dialect %q", dialect)
	}
}

func fetchColumnsPostgres(ctx context.Context, db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1
	`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols[strings.ToLower(name)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cols, nil
}

func fetchColumnsSQLite(ctx context.Context, db *sql.DB, table string) (map[string]bool, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid        int
			name       string
			colType    string
			notNull    int
			defaultV   sql.NullString
			primaryKey int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultV, &primaryKey); err != nil {
			return nil, err
		}
		cols[strings.ToLower(name)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cols, nil
}
