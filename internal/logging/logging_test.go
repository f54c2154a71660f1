package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/duty-logbook/backend/internal/logging"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		" error ": slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, logging.ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestNewWithWriter_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewWithWriter("warn", &buf)

	log.Info("dropped")
	log.Warn("kept", "trip_id", "t1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "exactly one JSON line expected")
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "t1", entry["trip_id"])
}

func TestNew_WritesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")
	log := logging.New("info", path)

	log.Info("server starting", "addr", ":8080")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"server starting"`)
}
