// Package logging wraps zerolog with the daemon's file-sink convention:
// structured JSON lines under the config directory, optionally mirrored
// to stderr through a pretty console writer.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

const logFileName = "skd.log"

// Logger is the daemon-wide structured logger. The zero value is not
// usable; construct with New.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// New opens (or creates) configDir/skd.log and returns a Logger that
// writes JSON lines there. When pretty is true, a second, human-readable
// stream is also written to stderr.
func New(configDir string, pretty bool) (*Logger, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure config dir: %w", err)
	}
	path := filepath.Join(configDir, logFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}

	var writer io.Writer = f
	if pretty {
		console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
		writer = zerolog.MultiLevelWriter(f, console)
	}

	zl := zerolog.New(writer).With().Timestamp().Logger()
	return &Logger{Logger: zl, file: f}, nil
}

// Close releases the underlying log file handle.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
