// Package logging configures the application logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options control where and how much is logged.
type Options struct {
	Level string
	// File is the log file path. Empty discards output.
	File string
}

// New returns a logger and a closer for its output.
// The TUI owns the terminal, so logs go to a rotated file instead of stderr.
func New(opts Options) (*log.Logger, io.Closer, error) {
	level := log.InfoLevel
	if strings.TrimSpace(opts.Level) != "" {
		parsed, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
		if err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	if opts.File == "" {
		return NewWithWriter(io.Discard, level), nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	out := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    5,
		MaxBackups: 3,
		MaxAge:     28,
	}
	return NewWithWriter(out, level), out, nil
}

// NewWithWriter returns a logfmt logger writing to w.
func NewWithWriter(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "quipe",
		ReportTimestamp: true,
		Formatter:       log.LogfmtFormatter,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return NewWithWriter(io.Discard, log.FatalLevel)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
