// Package apptest opens throwaway applications backed by a temporary
// SQLite file, for tests of the layers above the database.
package apptest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/perftracker/internal/app"
	"github.com/deppfellow/perftracker/internal/config"
)

// Option tweaks the config before the app is opened.
type Option func(*config.Config)

// WithoutForeignKeys turns off SQLite's foreign key enforcement.
func WithoutForeignKeys() Option {
	return func(c *config.Config) {
		c.Database.ForeignKeys = false
	}
}

// Config returns a default config pointing at a fresh file in t.TempDir().
func Config(t testing.TB, opts ...Option) *config.Config {
	t.Helper()

	cfg := config.New()
	cfg.Database.Path = filepath.Join(t.TempDir(), "perftracker_test.db")
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// New opens and migrates an App; it is closed when the test ends.
func New(t testing.TB, opts ...Option) *app.App {
	t.Helper()

	logger := zerolog.Nop()
	a, err := app.New(context.Background(), Config(t, opts...), &logger)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, a.Close())
	})
	return a
}
