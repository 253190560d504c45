package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
)

var (
	mu          sync.RWMutex
	filesystems []fs.FS
)

// Register records a filesystem laid out like data/sql/migrations: PostgreSQL
// files at the root and SQLite overrides under sqlite/. Hosts using
// go-persistence-bun feed Filesystems() to its runner; Apply covers the rest.
func Register(fsys fs.FS) {
	if fsys == nil {
		return
	}
	mu.Lock()
	filesystems = append(filesystems, fsys)
	mu.Unlock()
}

// Filesystems returns a copy of all registered migration filesystems.
func Filesystems() []fs.FS {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]fs.FS, len(filesystems))
	copy(out, filesystems)
	return out
}

// File is a single migration resolved for a dialect.
type File struct {
	FS   fs.FS
	Path string
}

// Files lists the migrations of fsys for dialect in apply order. For SQLite a
// file under sqlite/ replaces the root file with the same name.
func Files(fsys fs.FS, dialect string) ([]File, error) {
	normalized, err := normalizeDialect(dialect)
	if err != nil {
		return nil, err
	}
	base, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return nil, err
	}
	byName := make(map[string]string, len(base))
	for _, name := range base {
		byName[name] = name
	}
	if normalized == "sqlite" {
		overrides, err := fs.Glob(fsys, "sqlite/*.sql")
		if err != nil {
			return nil, err
		}
		for _, override := range overrides {
			byName[path.Base(override)] = override
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]File, 0, len(names))
	for _, name := range names {
		out = append(out, File{FS: fsys, Path: byName[name]})
	}
	return out, nil
}

// Apply executes every registered migration for dialect against db. The
// bundled DDL is idempotent, so Apply can run on every start.
func Apply(ctx context.Context, db *sql.DB, dialect string) error {
	if db == nil {
		return errors.New("migrations: db required")
	}
	for _, fsys := range Filesystems() {
		files, err := Files(fsys, dialect)
		if err != nil {
			return err
		}
		for _, file := range files {
			raw, err := fs.ReadFile(file.FS, file.Path)
			if err != nil {
				return err
			}
			for _, stmt := range splitStatements(string(raw)) {
				if _, err := db.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("migrations: %s: %w", file.Path, err)
				}
			}
		}
	}
	return nil
}

func normalizeDialect(dialect string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql", "pg":
		return "postgres", nil
	case "sqlite", "sqlite3":
		return "sqlite", nil
	default:
		return "", fmt.Errorf("migrations: unsupported dialect %q", dialect)
	}
}

func splitStatements(script string) []string {
	lines := strings.Split(script, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		kept = append(kept, line)
	}
	parts := strings.Split(strings.Join(kept, "\n"), ";")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
