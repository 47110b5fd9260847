// Package database owns the connection to the relational store.
//
// Two drivers are supported behind one *sql.DB handle:
//   - sqlite (default): a single local file, created on first open,
//     through the pure-Go modernc.org/sqlite driver
//   - postgres: a PostgreSQL server through pgx's database/sql adapter,
//     with pgx tracelog + zerolog wired in for the local environment
//
// It handles:
//   - building the DSN from config
//   - opening and pinging the handle so startup fails fast
//   - the schema manager (see Migrate)
//   - slow statement logging shared by the repositories
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"

	"github.com/deppfellow/perftracker/internal/config"
	loggerConfig "github.com/deppfellow/perftracker/internal/logger"
)

// sqliteDriverName is the name modernc.org/sqlite registers itself under.
const sqliteDriverName = "sqlite"

// DatabasePingTimeout defines the number of seconds to wait for a ping
// before considering the store unreachable.
const DatabasePingTimeout = 10

// Database wraps the store handle and a logger.
// It is opened once at startup and passed by reference to every
// repository; Close releases it.
type Database struct {
	DB     *sql.DB
	Driver string

	log                *zerolog.Logger
	slowQueryThreshold time.Duration
}

// New opens the store selected by cfg.Database.Driver and pings it.
//
// Behavior:
//   - sqlite: create the parent directory of the file if needed, open
//     with the foreign_keys / busy_timeout pragmas, cap the pool at one
//     connection (the tracker is single-threaded and SQLite serializes
//     writers anyway)
//   - postgres: parse the DSN into a pgx ConnConfig, attach the SQL
//     tracer in the local env, open it through pgx/v5/stdlib
//   - ping with a timeout so an unreadable file or dead server is
//     reported at startup
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*Database, error) {
	var (
		sqlDB *sql.DB
		err   error
	)

	switch cfg.Database.Driver {
	case config.DriverSQLite:
		sqlDB, err = openSQLite(cfg.Database)
	case config.DriverPostgres:
		sqlDB, err = openPostgres(cfg, logger)
	default:
		err = fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, err
	}

	database := &Database{
		DB:     sqlDB,
		Driver: cfg.Database.Driver,
		log:    logger,
	}
	if cfg.Observability != nil {
		database.slowQueryThreshold = cfg.Observability.Logging.SlowQueryThreshold
	}

	pingCtx, cancel := context.WithTimeout(ctx, DatabasePingTimeout*time.Second)
	defer cancel()
	if err = sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Str("driver", database.Driver).Msg("connected to the database")

	return database, nil
}

func openSQLite(cfg config.DatabaseConfig) (*sql.DB, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open(sqliteDriverName, cfg.SQLiteDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// One connection for the process lifetime: every pragma applies to
	// it and no statement ever waits on a sibling connection's lock.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	return sqlDB, nil
}

func openPostgres(cfg *config.Config, logger *zerolog.Logger) (*sql.DB, error) {
	connConfig, err := pgx.ParseConfig(cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx config: %w", err)
	}

	// In the local env, log every statement through pgx tracelog + zerolog.
	// This is noisy, which is why it stays local.
	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		connConfig.Tracer = &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(loggerConfig.NewPgxLogger(logger)),
			LogLevel: loggerConfig.GetPgxTraceLogLevel(globalLevel),
		}
	}

	sqlDB := stdlib.OpenDB(*connConfig)
	sqlDB.SetMaxOpenConns(1)

	return sqlDB, nil
}

// Observe logs statements that ran longer than the configured threshold.
// Repositories call it deferred with the start time:
//
//	defer r.db.Observe(ctx, query, time.Now())
func (db *Database) Observe(ctx context.Context, query string, start time.Time) {
	if db.slowQueryThreshold <= 0 {
		return
	}
	elapsed := time.Since(start)
	if elapsed < db.slowQueryThreshold {
		return
	}
	db.log.Warn().
		Ctx(ctx).
		Dur("elapsed", elapsed).
		Dur("threshold", db.slowQueryThreshold).
		Str("query", query).
		Msg("slow query")
}

// Logger returns the logger the handle was opened with.
func (db *Database) Logger() *zerolog.Logger {
	return db.log
}

// Close releases the store handle.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection")
	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
