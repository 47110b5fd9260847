package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"

	"github.com/deppfellow/perftracker/internal/config"
)

// All schema files are embedded, one directory per driver, so the binary
// does not depend on the filesystem at runtime. Every statement is a
// CREATE TABLE IF NOT EXISTS: the schema manager never drops or alters.
//
//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

// Migrate ensures the employees, evaluation_criteria and evaluation_scores
// tables exist. It is safe to run on every startup.
//
// Behavior:
//   - sqlite: execute the embedded statements in file-name order on the
//     already open handle
//   - postgres: open a dedicated pgx connection and let jackc/tern apply
//     the embedded migrations, tracking progress in schema_version
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config, db *Database) error {
	switch db.Driver {
	case config.DriverPostgres:
		return migratePostgres(ctx, logger, cfg)
	default:
		return migrateSQLite(ctx, logger, db)
	}
}

func migrateSQLite(ctx context.Context, logger *zerolog.Logger, db *Database) error {
	dir := "migrations/sqlite"

	// ReadDir returns entries sorted by file name, which fixes the order.
	entries, err := fs.ReadDir(migrations, dir)
	if err != nil {
		return fmt.Errorf("retrieving database migrations: %w", err)
	}

	for _, entry := range entries {
		stmt, err := fs.ReadFile(migrations, path.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}
		if _, err := db.DB.ExecContext(ctx, string(stmt)); err != nil {
			return fmt.Errorf("applying migration %s: %w", entry.Name(), err)
		}
	}

	logger.Info().Int("statements", len(entries)).Msg("database schema up to date")
	return nil
}

func migratePostgres(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	// A single connection is enough for a one-time action.
	conn, err := pgx.Connect(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting for migrations: %w", err)
	}
	defer conn.Close(ctx)

	m, err := tern.NewMigrator(ctx, conn, "schema_version")
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := fs.Sub(migrations, "migrations/postgres")
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if err := m.Migrate(ctx); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	if from == int32(len(m.Migrations)) {
		logger.Info().Msgf("database schema up to date, version %d", len(m.Migrations))
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, len(m.Migrations))
	}
	return nil
}
