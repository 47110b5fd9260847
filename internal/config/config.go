// Package config manages the tracker's configuration.
//
// It layers defaults, an optional YAML file, a `.env` file and
// environment variables, loads them into structured Go types and
// validates them so the CLI fails fast on a bad setup.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Merge an optional YAML file named by PERFTRACKER_CONFIG (or --config).
//   - Map everything into the Config struct tree.
//   - Validate required values and enums before anything touches the store.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists in the working directory
	// it is loaded into the process env before Load reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

/*
	Key mapping used by Load:

	- Env vars are read using the prefix PERFTRACKER_
	- The prefix is removed and the rest lowercased
	- A double underscore separates nesting levels, a single one is kept
	  e.g. PERFTRACKER_DATABASE__SSL_MODE -> database.ssl_mode
*/

const (
	// EnvPrefix is the prefix of every environment variable Load reads.
	EnvPrefix = "PERFTRACKER_"

	// FileEnvVar names the optional YAML configuration file.
	FileEnvVar = EnvPrefix + "CONFIG"

	// DriverSQLite stores everything in a single local file.
	DriverSQLite = "sqlite"
	// DriverPostgres talks to a PostgreSQL server through pgx.
	DriverPostgres = "postgres"
)

// Config is the root configuration object for the application.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// DatabaseConfig selects the store driver and carries its connection
// parameters. Path is used by sqlite; the network fields only by postgres.
type DatabaseConfig struct {
	Driver string `koanf:"driver" validate:"required,oneof=sqlite postgres"`

	// Path is the SQLite database file. It is created on first open.
	Path string `koanf:"path" validate:"required_if=Driver sqlite"`

	// ForeignKeys toggles enforcement of the REFERENCES clauses.
	// PostgreSQL always enforces them; SQLite only when this is set.
	ForeignKeys bool `koanf:"foreign_keys"`

	// BusyTimeout is how long SQLite waits on a locked file.
	BusyTimeout time.Duration `koanf:"busy_timeout" validate:"min=0"`

	Host     string `koanf:"host" validate:"required_if=Driver postgres"`
	Port     int    `koanf:"port" validate:"required_if=Driver postgres"`
	User     string `koanf:"user" validate:"required_if=Driver postgres"`
	Password string `koanf:"password"`
	Name     string `koanf:"name" validate:"required_if=Driver postgres"`
	SSLMode  string `koanf:"ssl_mode"`
}

// DSN builds the postgres:// URL for the configured server.
// The password is URL-escaped so characters like ':' or '@' survive.
func (d DatabaseConfig) DSN() string {
	hostPort := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		url.QueryEscape(d.User),
		url.QueryEscape(d.Password),
		hostPort,
		d.Name,
		sslMode,
	)
}

// sqlitePathEscaper escapes the characters that would otherwise end the
// path part of a file: URI. SQLite decodes %HH escapes when opening it.
var sqlitePathEscaper = strings.NewReplacer("%", "%25", "?", "%3F", "#", "%23")

// SQLiteDSN builds the modernc.org/sqlite connection string for Path.
// Pragmas are applied by the driver on every new connection.
func (d DatabaseConfig) SQLiteDSN() string {
	fk := 0
	if d.ForeignKeys {
		fk = 1
	}
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("foreign_keys(%d)", fk))
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", d.BusyTimeout.Milliseconds()))
	return "file:" + sqlitePathEscaper.Replace(d.Path) + "?" + q.Encode()
}

// New returns a Config populated with defaults. Load layers file and
// env values on top of it.
func New() *Config {
	return &Config{
		Primary: Primary{Env: "local"},
		Database: DatabaseConfig{
			Driver:      DriverSQLite,
			Path:        "employee_performance.db",
			ForeignKeys: true,
			BusyTimeout: 5 * time.Second,
			Port:        5432,
			SSLMode:     "disable",
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// Load builds a Config by layering defaults, an optional YAML file and
// env vars, then validates the result.
//
// Order of precedence (low -> high):
//  1. defaults (New)
//  2. YAML file: path argument, or PERFTRACKER_CONFIG when path is empty
//  3. env (prefix PERFTRACKER_, including values from `.env`)
func Load(path string) (*Config, error) {
	cfg := New()

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(FileEnvVar)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrLoadConfig, path, err)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal on top of the defaults; keys that were not set keep them.
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if cfg.Observability == nil {
		cfg.Observability = DefaultObservabilityConfig()
	}
	cfg.Observability.ServiceName = "perftracker"
	cfg.Observability.Environment = cfg.Primary.Env

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate runs the struct-tag rules and the observability checks.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			fields := make([]string, 0, len(ve))
			for _, fe := range ve {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if c.Observability != nil {
		if err := c.Observability.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

// envKey maps PERFTRACKER_DATABASE__SSL_MODE to database.ssl_mode.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}
