// Package migrations applies the embedded SQLite schema used by the
// file-backed cache.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

const migrationsDir = "sql"

//go:embed sql/*.sql
var migrationsFS embed.FS

func Apply(ctx context.Context, db *sql.DB) error {
	if err := createHistoryTable(ctx, db); err != nil {
		return err
	}

	files, err := migrationFiles()
	if err != nil {
		return err
	}

	for _, filename := range files {
		applied, err := isMigrationApplied(ctx, db, filename)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		stmts, err := Statements(migrationsFS, migrationsDir+"/"+filename)
		if err != nil {
			return err
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", filename, err)
		}
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("failed to execute migration %s: %w", filename, err)
			}
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO migrations_history (name) VALUES (?)", filename); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", filename, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", filename, err)
		}
	}

	return nil
}

func migrationFiles() ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		files = append(files, entry.Name())
	}
	slices.Sort(files)
	return files, nil
}

// Statements reads a migration file and splits it into individual statements.
func Statements(fsys fs.FS, name string) ([]string, error) {
	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration file %s: %w", name, err)
	}

	var stmts []string
	for stmt := range strings.SplitSeq(string(content), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, nil
}

func createHistoryTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS migrations_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating migrations history table: %w", err)
	}
	return nil
}

func isMigrationApplied(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM migrations_history WHERE name = ?", name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking if migration applied: %w", err)
	}
	return count > 0, nil
}
