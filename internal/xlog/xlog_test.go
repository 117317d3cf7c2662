package xlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithLogDirWritesJSONFile(t *testing.T) {
	dir := t.TempDir()
	l := New(Config{LogDir: dir, Pass: "ground"})
	l.Info("grounded task", "facts", 42)
	require.NoError(t, l.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestNewWithMissingLogDirFallsBackToStderr(t *testing.T) {
	l := New(Config{LogDir: "/nonexistent-parent-that-cannot-be-created/\x00bad"})
	l.Info("still works")
	assert.NoError(t, l.Close())
}

func TestWithReturnsChildCarryingAttrs(t *testing.T) {
	l := Default()
	child := l.With("request_id", "abc123")
	assert.NotEqual(t, l.Slog(), child.Slog(), "expected With to return a distinct slog.Logger")
}
