// Package log is the process-wide debug log. Output is buffered until a
// file is configured, then flushed and written through.
package log

import (
	"log"
	"log/slog"
	"os"
	"sync"
)

// maxBuffered bounds what is kept in memory before a file is set.
const maxBuffered = 1 << 20

// DebugLogger is an io.Writer that buffers until SetFile is called.
type DebugLogger struct {
	mu      sync.Mutex
	file    *os.File
	buffer  []byte
	discard bool
}

var (
	global    = &DebugLogger{}
	stdLogger = log.New(global, "", log.LstdFlags|log.Lmicroseconds)
	slogger   = slog.New(slog.NewTextHandler(global, &slog.HandlerOptions{Level: slog.LevelDebug}))
)

// Write implements io.Writer.
func (l *DebugLogger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.discard {
		return len(p), nil
	}
	if l.file != nil {
		n, err := l.file.Write(p)
		_ = l.file.Sync()
		return n, err
	}

	l.buffer = append(l.buffer, p...)
	if over := len(l.buffer) - maxBuffered; over > 0 {
		l.buffer = append(l.buffer[:0], l.buffer[over:]...)
	}
	return len(p), nil
}

// SetFile routes the log to path, flushing anything buffered so far. An
// empty path discards buffered and future output.
func SetFile(path string) error {
	global.mu.Lock()
	defer global.mu.Unlock()

	if global.file != nil {
		_ = global.file.Close()
		global.file = nil
	}

	if path == "" {
		global.discard = true
		global.buffer = nil
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		global.discard = true
		global.buffer = nil
		return err
	}

	global.file = f
	global.discard = false
	if len(global.buffer) > 0 {
		_, _ = f.Write(global.buffer)
		_ = f.Sync()
		global.buffer = nil
	}
	return nil
}

// Printf writes a formatted line.
func Printf(format string, args ...any) {
	stdLogger.Printf(format, args...)
}

// Println writes a line.
func Println(v ...any) {
	stdLogger.Println(v...)
}

// Logger returns a structured logger sharing the debug log's destination.
func Logger() *slog.Logger {
	return slogger
}

// Debug writes a structured record at debug level.
func Debug(msg string, args ...any) {
	slogger.Debug(msg, args...)
}

// Close closes the log file if one is open.
func Close() error {
	global.mu.Lock()
	defer global.mu.Unlock()

	if global.file == nil {
		return nil
	}
	err := global.file.Close()
	global.file = nil
	return err
}
