// Package logger sets up charmbracelet/log for stache.
//
// Everything logs to stderr: stdout carries the IPC and stdio LSP streams.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Setup points the default logger at stderr and picks the level.
func Setup(debug bool) {
	log.SetDefault(NewWithConfig(os.Stderr, "", levelFor(debug), false, debug, log.TextFormatter))
}

// New creates a prefixed logger at the global level.
func New(prefix string) *log.Logger {
	return NewWithConfig(os.Stderr, prefix, log.GetLevel(), false, true, log.TextFormatter)
}

// NewWithConfig creates a charm log with custom config
func NewWithConfig(w io.Writer, prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}

func levelFor(debug bool) log.Level {
	if debug {
		return log.DebugLevel
	}
	return log.WarnLevel
}
