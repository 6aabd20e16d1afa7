package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerolog_WritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerolog(&buf, "debug", "poller")

	l.Debug("tick %d", 3)
	l.Warn("history fetch failed for %s", "10.0.0.5")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "tick 3", entry["message"])
	assert.Equal(t, "poller", entry["component"])

	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "history fetch failed for 10.0.0.5", entry["message"])
}

func TestZerolog_LevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantDebug bool
	}{
		{name: "debug level keeps debug", level: "debug", wantDebug: true},
		{name: "info level drops debug", level: "info", wantDebug: false},
		{name: "empty level defaults to info", level: "", wantDebug: false},
		{name: "unknown level defaults to info", level: "chatty", wantDebug: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewZerolog(&buf, tt.level, "")
			l.Debug("hidden?")
			l.Info("visible")

			assert.Equal(t, tt.wantDebug, strings.Contains(buf.String(), "hidden?"))
			assert.Contains(t, buf.String(), "visible")
		})
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "netmon.log")

	l, closer, err := NewFileLogger(path, "info", "cli")
	require.NoError(t, err)
	l.Info("started")
	l.Error("boom: %s", "refused")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"started"`)
	assert.Contains(t, string(data), `"message":"boom: refused"`)
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsole(&buf, "info", "fakeapi")
	l.Info("GET /api/hosts")

	assert.Contains(t, buf.String(), "GET /api/hosts")
}

func TestNewFileLogger_AppendsAndFiltersByLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netmon.log")

	first, closer, err := NewFileLogger(path, "warn", "tui")
	require.NoError(t, err)
	first.Info("dropped")
	first.Warn("history for %s timed out", "10.0.0.5")
	require.NoError(t, closer.Close())

	second, closer, err := NewFileLogger(path, "debug", "cli")
	require.NoError(t, err)
	second.Debug("GET /api/hosts -> 200")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "tui", entry["component"])
	assert.Equal(t, "history for 10.0.0.5 timed out", entry["message"])

	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	assert.Equal(t, "cli", entry["component"])
	assert.Equal(t, "debug", entry["level"])
}

func TestZerolog_OmitsEmptyComponent(t *testing.T) {
	var buf bytes.Buffer
	NewZerolog(&buf, "info", "").Info("ready")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, "component")
}

func TestNewConsole_TagsComponent(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf, "debug", "cli").Debug("GET /api/hosts -> 200")

	out := buf.String()
	assert.Contains(t, out, "GET /api/hosts -> 200")
	assert.Contains(t, out, "component")
	assert.Contains(t, out, "cli")
}

func TestNewFileLogger_UnwritablePath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, _, err := NewFileLogger(filepath.Join(blocker, "netmon.log"), "info", "cli")
	assert.Error(t, err)
}
