// Package logging builds the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how log lines are written.
type Options struct {
	Level       string
	Development bool
	// File enables rotating file output next to stdout when non-empty.
	File          string
	FileMaxSizeMB int
	FileBackups   int
	FileMaxAge    int
}

// New returns a logger writing to stdout (console format in development,
// JSON otherwise) and, when configured, to a lumberjack-rotated file.
func New(opts Options) zerolog.Logger {
	var stdout io.Writer = os.Stdout
	if opts.Development {
		stdout = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	w := stdout
	if opts.File != "" {
		w = zerolog.MultiLevelWriter(stdout, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.FileMaxSizeMB,
			MaxBackups: opts.FileBackups,
			MaxAge:     opts.FileMaxAge,
			Compress:   true,
		})
	}

	return zerolog.New(w).Level(ParseLevel(opts.Level)).With().
		Timestamp().
		Str("service", "clinicboard").
		Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
