package log

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetDebugLogger(t *testing.T) {
	t.Helper()

	global.mu.Lock()
	prevFile, prevBuffer, prevDiscard := global.file, global.buffer, global.discard
	global.file, global.buffer, global.discard = nil, nil, false
	global.mu.Unlock()

	t.Cleanup(func() {
		global.mu.Lock()
		if global.file != nil {
			_ = global.file.Close()
		}
		global.file, global.buffer, global.discard = prevFile, prevBuffer, prevDiscard
		global.mu.Unlock()
	})
}

func TestBufferedOutputIsFlushedToFile(t *testing.T) {
	resetDebugLogger(t)

	Printf("walk: %d commits", 3)
	Debug("snapshot loaded", slog.Int("rows", 42))

	path := filepath.Join(t.TempDir(), "debug.log")
	require.NoError(t, SetFile(path))
	Println("after file")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "walk: 3 commits")
	assert.Contains(t, content, "msg=\"snapshot loaded\" rows=42")
	assert.Contains(t, content, "after file")
	assert.Less(t, strings.Index(content, "walk:"), strings.Index(content, "after file"))
}

func TestEmptyPathDiscards(t *testing.T) {
	resetDebugLogger(t)

	Printf("dropped")
	require.NoError(t, SetFile(""))
	Logger().Info("also dropped")

	global.mu.Lock()
	defer global.mu.Unlock()
	assert.Empty(t, global.buffer)
	assert.True(t, global.discard)
}

func TestBufferIsBounded(t *testing.T) {
	resetDebugLogger(t)

	chunk := []byte(strings.Repeat("x", 4096))
	for i := 0; i < (maxBuffered/len(chunk))+10; i++ {
		_, err := global.Write(chunk)
		require.NoError(t, err)
	}

	global.mu.Lock()
	defer global.mu.Unlock()
	assert.Equal(t, maxBuffered, len(global.buffer))
}

func TestSetFileFailureDiscardsLogs(t *testing.T) {
	resetDebugLogger(t)

	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0o500)) //nolint:gosec
	t.Cleanup(func() { _ = os.Chmod(dir, 0o700) }) //nolint:gosec
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	require.Error(t, SetFile(filepath.Join(dir, "debug.log")))
	Printf("should be discarded")

	global.mu.Lock()
	defer global.mu.Unlock()
	assert.True(t, global.discard)
	assert.Empty(t, global.buffer)
}
