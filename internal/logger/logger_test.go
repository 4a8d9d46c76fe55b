package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestConsoleFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	InitLogger(Options{Level: "warn", Console: &buf})
	t.Cleanup(Close)

	Info("hidden")
	Success("also hidden")
	Warn("duplicate alert record", "alert_id", "A1")
	Error("alert completion failed", errors.New("boom"), "alert_id", "A2")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "duplicate alert record")
	assert.Contains(t, out, "alert_id=A1")
	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, "error=boom")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestWithGroupPrefixesKeys(t *testing.T) {
	var buf bytes.Buffer
	InitLogger(Options{Level: "debug", Console: &buf})
	t.Cleanup(Close)

	With("component", "registry").WithGroup("alert").Info("added", "id", "A1")
	assert.Contains(t, buf.String(), "component=registry")
	assert.Contains(t, buf.String(), "alert.id=A1")
}

func TestFileReceivesJSONWithSuccessLevel(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "run.log")
	InitLogger(Options{Level: "info", File: path, Console: &buf})

	Success("alert raised", "alert_id", "A1")
	Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"level":"SUCCESS"`)
	assert.Contains(t, string(data), `"alert_id":"A1"`)
	assert.Contains(t, buf.String(), "alert raised")
}
