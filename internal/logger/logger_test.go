package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/perftracker/internal/config"
)

func TestJSONLoggerFields(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Format = "json"
	cfg.Logging.Level = "info"
	cfg.Environment = "test"

	var buf bytes.Buffer
	log := NewWithWriter(cfg, &buf)
	log.Debug().Msg("hidden")
	log.Info().Int64("employee_id", 3).Msg("employee added")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "employee added", entry["message"])
	assert.Equal(t, "perftracker", entry["service"])
	assert.Equal(t, "test", entry["env"])
	assert.EqualValues(t, 3, entry["employee_id"])
}

func TestDefaultLevelIsWarn(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.DefaultObservabilityConfig(), &buf)

	log.Info().Msg("connected")
	assert.Empty(t, buf.String())

	log.Warn().Msg("slow query")
	assert.Contains(t, buf.String(), "slow query")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
}

func TestGetPgxTraceLogLevel(t *testing.T) {
	assert.Equal(t, tracelog.LogLevelDebug, GetPgxTraceLogLevel(zerolog.DebugLevel))
	assert.Equal(t, tracelog.LogLevelWarn, GetPgxTraceLogLevel(zerolog.WarnLevel))
	assert.Equal(t, tracelog.LogLevelNone, GetPgxTraceLogLevel(zerolog.Disabled))
}
