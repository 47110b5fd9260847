package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/perftracker/internal/config"
	"github.com/deppfellow/perftracker/internal/database"
)

func sqliteConfig(t *testing.T) *config.Config {
	cfg := config.New()
	cfg.Database.Path = filepath.Join(t.TempDir(), "nested", "dir", "perf.db")
	return cfg
}

func tableNames(t *testing.T, db *database.Database) []string {
	rows, err := db.DB.QueryContext(context.Background(),
		`SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}

func TestOpenCreatesFileAndSchema(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()
	cfg := sqliteConfig(t)

	db, err := database.New(ctx, cfg, &logger)
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, cfg.Database.Path)
	assert.Equal(t, config.DriverSQLite, db.Driver)

	require.NoError(t, database.Migrate(ctx, &logger, cfg, db))
	assert.Equal(t, []string{"employees", "evaluation_criteria", "evaluation_scores"}, tableNames(t, db))
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()
	cfg := sqliteConfig(t)

	db, err := database.New(ctx, cfg, &logger)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(ctx, &logger, cfg, db))

	_, err = db.DB.ExecContext(ctx,
		`INSERT INTO employees (name, department, job_title) VALUES ('Ada', 'R&D', 'Engineer')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// A second run against the same file keeps the existing rows.
	db, err = database.New(ctx, cfg, &logger)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, database.Migrate(ctx, &logger, cfg, db))
	require.NoError(t, database.Migrate(ctx, &logger, cfg, db))

	var count int
	require.NoError(t, db.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestForeignKeysPragma(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	for _, enabled := range []bool{true, false} {
		cfg := sqliteConfig(t)
		cfg.Database.ForeignKeys = enabled

		db, err := database.New(ctx, cfg, &logger)
		require.NoError(t, err)

		var fk int
		require.NoError(t, db.DB.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk))
		assert.Equal(t, enabled, fk == 1)
		require.NoError(t, db.Close())
	}
}

func TestOpenFailsOnUnusablePath(t *testing.T) {
	logger := zerolog.Nop()
	cfg := config.New()
	// A directory cannot be opened as a database file.
	cfg.Database.Path = t.TempDir()

	db, err := database.New(context.Background(), cfg, &logger)
	assert.Error(t, err)
	assert.Nil(t, db)
}

func TestUnsupportedDriver(t *testing.T) {
	logger := zerolog.Nop()
	cfg := config.New()
	cfg.Database.Driver = "mysql"

	_, err := database.New(context.Background(), cfg, &logger)
	assert.ErrorContains(t, err, `unsupported database driver "mysql"`)
}

func TestPathWithURIDelimiters(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()
	cfg := config.New()
	cfg.Database.Path = filepath.Join(t.TempDir(), "my?db#1.db")

	db, err := database.New(ctx, cfg, &logger)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, database.Migrate(ctx, &logger, cfg, db))

	assert.FileExists(t, cfg.Database.Path)

	var fk int
	require.NoError(t, db.DB.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)

	_, err = db.DB.ExecContext(ctx,
		`INSERT INTO evaluation_scores (employee_id, criterion_id, score) VALUES (5, 5, 1)`)
	assert.Error(t, err, "dangling reference must be rejected")
}
