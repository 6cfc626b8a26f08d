package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// migration is one schema version: NNN_name.up.sql and NNN_name.down.sql.
type migration struct {
	version  int
	name     string
	up, down string
}

// loadMigrations pairs up and down scripts and orders them by version.
// Files that do not start with a version number are ignored.
func loadMigrations(fsys fs.FS) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, "migrations")
	if err != nil {
		return nil, fmt.Errorf("reading migrations: %w", err)
	}

	byVersion := map[int]*migration{}
	for _, entry := range entries {
		file := entry.Name()
		stem, direction, ok := splitMigrationName(file)
		if !ok {
			continue
		}
		prefix, name, _ := strings.Cut(stem, "_")
		version, err := strconv.Atoi(prefix)
		if err != nil {
			continue
		}

		body, err := fs.ReadFile(fsys, path.Join("migrations", file))
		if err != nil {
			return nil, fmt.Errorf("reading migration %s: %w", file, err)
		}
		m := byVersion[version]
		if m == nil {
			m = &migration{version: version, name: name}
			byVersion[version] = m
		}
		if direction == "up" {
			m.up = string(body)
		} else {
			m.down = string(body)
		}
	}

	out := make([]migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.up == "" {
			return nil, fmt.Errorf("migration %03d_%s has no up script", m.version, m.name)
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

func splitMigrationName(file string) (stem, direction string, ok bool) {
	for _, dir := range []string{"up", "down"} {
		if s, found := strings.CutSuffix(file, "."+dir+".sql"); found {
			return s, dir, true
		}
	}
	return "", "", false
}

// migrate applies every version newer than the recorded one, each in its
// own transaction.
func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	current, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}
	all, err := loadMigrations(migrationFiles)
	if err != nil {
		return err
	}

	for _, m := range all {
		if m.version <= current {
			continue
		}
		err := s.inTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, m.up); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", m.version)
			return err
		})
		if err != nil {
			return fmt.Errorf("applying migration %03d_%s: %w", m.version, m.name, err)
		}
	}
	return nil
}

// rollback undoes the newest applied migration. It reports false when
// nothing is applied.
func (s *Store) rollback(ctx context.Context) (bool, error) {
	current, err := s.schemaVersion(ctx)
	if err != nil || current == 0 {
		return false, err
	}
	all, err := loadMigrations(migrationFiles)
	if err != nil {
		return false, err
	}

	for _, m := range all {
		if m.version != current {
			continue
		}
		err := s.inTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, m.down); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, "DELETE FROM schema_migrations WHERE version = ?", m.version)
			return err
		})
		if err != nil {
			return false, fmt.Errorf("rolling back migration %03d_%s: %w", m.version, m.name, err)
		}
		return true, nil
	}
	return false, fmt.Errorf("no migration file for applied version %d", current)
}

func (s *Store) schemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v); err != nil {
		return 0, fmt.Errorf("getting current version: %w", err)
	}
	return v, nil
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
