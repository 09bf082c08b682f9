package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "json to stdout",
			config: Config{Level: "debug", Format: "json", Output: "stdout"},
		},
		{
			name:   "text to stderr",
			config: Config{Level: "info", Format: "text", Output: "stderr"},
		},
		{
			name:   "rotated file",
			config: Config{Level: "warn", Format: "json", Output: filepath.Join(dir, "logs", "poolkit.log"), MaxSizeMB: 1, MaxBackups: 2},
		},
		{
			name:    "invalid level",
			config:  Config{Level: "verbose", Format: "json", Output: "stdout"},
			wantErr: true,
		},
		{
			name:    "invalid format",
			config:  Config{Level: "debug", Format: "xml", Output: "stdout"},
			wantErr: true,
		},
		{
			name:    "directory under a regular file",
			config:  Config{Level: "debug", Format: "json", Output: filepath.Join(blocker, "poolkit.log")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, log)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	log, err := New(Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	log.Info("written to file", Field{Key: "n", Value: 1})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
		wantError bool
	}{
		{"debug shows all", "debug", true, true, true, true},
		{"info skips debug", "info", false, true, true, true},
		{"warn skips debug and info", "warn", false, false, true, true},
		{"error shows only errors", "error", false, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log, err := NewWithWriter(&buf, tt.level, "json")
			require.NoError(t, err)

			log.Debug("debug message")
			log.Info("info message")
			log.Warn("warn message")
			log.Error("error message", nil)

			out := buf.String()
			assert.Equal(t, tt.wantDebug, strings.Contains(out, "debug message"))
			assert.Equal(t, tt.wantInfo, strings.Contains(out, "info message"))
			assert.Equal(t, tt.wantWarn, strings.Contains(out, "warn message"))
			assert.Equal(t, tt.wantError, strings.Contains(out, "error message"))
		})
	}
}

func TestLogger_ErrorField(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "debug", "json")
	require.NoError(t, err)

	log.ErrorCtx(context.Background(), "task failed", errors.New("boom"), Field{Key: "task_id", Value: "t-1"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "task failed", entry["msg"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "t-1", entry["task_id"])
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "debug", "text")
	require.NoError(t, err)

	log.With(Field{Key: "component", Value: "workers"}).InfoCtx(context.Background(), "started")

	out := buf.String()
	assert.Contains(t, out, "component=workers")
	assert.Contains(t, out, "started")
}

func TestNop(t *testing.T) {
	log := Nop()
	// Must not panic at any level.
	log.Debug("x")
	log.Info("x")
	log.Warn("x")
	log.Error("x", errors.New("y"))
}

func TestNewWithWriter_InvalidArgs(t *testing.T) {
	_, err := NewWithWriter(&bytes.Buffer{}, "loud", "json")
	assert.Error(t, err)

	_, err = NewWithWriter(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}

func TestNewStdLog(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "info", "text")
	require.NoError(t, err)

	NewStdLog(log).Print("http: TLS handshake error")

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "TLS handshake error")
}
