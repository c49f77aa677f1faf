// Package postgres holds the pgx-backed persistence layer and its
// embedded schema migrations.
package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/tern/v2/migrate"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Connect opens a pgx pool for the given URL and verifies the database
// is reachable before handing the pool back.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Info("Database connected", "min_conns", poolCfg.MinConns, "max_conns", poolCfg.MaxConns)
	return pool, nil
}

const (
	// migrationLockID spells "rmorder" in hex. Every instance takes this
	// advisory lock before migrating so only one of them runs the schema
	// changes at startup.
	migrationLockID             = 0x726d6f72646572
	migrationLockReleaseTimeout = 5 * time.Second
)

// RunMigrationsWithLock applies any pending schema migrations while
// holding the migration advisory lock on a dedicated connection.
func RunMigrationsWithLock(ctx context.Context, pool *pgxpool.Pool) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection for migration: %w", err)
	}
	defer conn.Release()

	unlock, err := acquireMigrationLock(ctx, conn.Conn())
	if err != nil {
		return err
	}
	defer unlock()

	slog.Info("Running database migrations")
	return applyMigrations(ctx, conn.Conn())
}

func applyMigrations(ctx context.Context, conn *pgx.Conn) error {
	migrationFS, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("read embedded migrations: %w", err)
	}

	migrator, err := migrate.NewMigrator(ctx, conn, "public.schema_version")
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := migrator.LoadMigrations(migrationFS); err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	if version, err := migrator.GetCurrentVersion(ctx); err == nil {
		slog.Info("Current schema version", "version", version)
	}

	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

// acquireMigrationLock blocks until the advisory lock is held and
// returns the function that releases it. The release uses a fresh
// context so it still runs when the caller's context is already done.
func acquireMigrationLock(ctx context.Context, conn *pgx.Conn) (func(), error) {
	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", migrationLockID); err != nil {
		return nil, fmt.Errorf("acquire migration lock: %w", err)
	}

	unlock := func() {
		ctx, cancel := context.WithTimeout(context.Background(), migrationLockReleaseTimeout)
		defer cancel()

		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", migrationLockID); err != nil {
			slog.Error("Failed to release migration lock", "error", err)
		}
	}
	return unlock, nil
}
