// Package postgres applies the embedded Postgres schema used by the shared
// cache backend.
package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/garrettladley/payconiq/internal/migrations"
)

const (
	migrationsDir = "sql"

	// advisoryLockID serialises concurrent Apply calls across processes.
	advisoryLockID = 0x7061_7963_6f6e
)

//go:embed sql/*.sql
var migrationsFS embed.FS

func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		return fmt.Errorf("acquiring migration lock: %w", err)
	}
	defer func() { _, _ = conn.Exec(context.WithoutCancel(ctx), "SELECT pg_advisory_unlock($1)", advisoryLockID) }()

	if err := createHistoryTable(ctx, conn.Conn()); err != nil {
		return err
	}

	entries, err := fs.ReadDir(migrationsFS, migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		files = append(files, entry.Name())
	}
	slices.Sort(files)

	for _, filename := range files {
		applied, err := isMigrationApplied(ctx, conn.Conn(), filename)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		stmts, err := migrations.Statements(migrationsFS, migrationsDir+"/"+filename)
		if err != nil {
			return err
		}

		err = pgx.BeginFunc(ctx, conn.Conn(), func(tx pgx.Tx) error {
			for _, stmt := range stmts {
				if _, err := tx.Exec(ctx, stmt); err != nil {
					return fmt.Errorf("failed to execute migration %s: %w", filename, err)
				}
			}
			if _, err := tx.Exec(ctx, "INSERT INTO payconiq_migrations_history (name) VALUES ($1)", filename); err != nil {
				return fmt.Errorf("recording migration %s: %w", filename, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func createHistoryTable(ctx context.Context, conn *pgx.Conn) error {
	_, err := conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS payconiq_migrations_history (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("creating migrations history table: %w", err)
	}
	return nil
}

func isMigrationApplied(ctx context.Context, conn *pgx.Conn, name string) (bool, error) {
	var count int
	err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM payconiq_migrations_history WHERE name = $1", name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking if migration applied: %w", err)
	}
	return count > 0, nil
}
