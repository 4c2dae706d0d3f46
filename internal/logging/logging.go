// Package logging builds the zerolog loggers used by the server, the TUI and
// the collection managers.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const filePermission = 0o644

// ParseLevel accepts debug|info|warn|error|disabled. Empty means warn.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.WarnLevel, nil
	}
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.WarnLevel, fmt.Errorf("invalid log level %q", s)
	}
	return lvl, nil
}

// New returns a timestamped logger writing to w.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// File is a logger backed by an append-only file. Close releases the file.
type File struct {
	Logger zerolog.Logger
	file   *os.File
}

// Open appends to path, creating it and its directory if needed. Writes are
// serialized since bubbletea commands log from their own goroutines.
func Open(path string, level zerolog.Level) (*File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return &File{Logger: Nop()}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePermission)
	if err != nil {
		return nil, err
	}
	return &File{Logger: New(zerolog.SyncWriter(f), level), file: f}, nil
}

func (f *File) Close() error {
	if f == nil || f.file == nil {
		return nil
	}
	return f.file.Close()
}

func Nop() zerolog.Logger { return zerolog.Nop() }
