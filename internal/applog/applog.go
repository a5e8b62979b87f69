// Package applog wraps charm/log for structured logging. The TUI owns the
// terminal, so interactive runs log to a file instead of stderr.
package applog

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

type Logger struct {
	*log.Logger
}

// New creates a logger writing to w.
func New(w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that appends to the file at path. The
// returned cleanup closes the file.
func NewFileLogger(path string) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}

	l := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})

	cleanup := func() {
		f.Close()
	}

	return &Logger{Logger: l}, cleanup, nil
}

// Discard returns a logger that drops all output.
func Discard() *Logger {
	return New(io.Discard)
}

// NoteSaved records a completed vault write.
func (l *Logger) NoteSaved(noteID string, bytes int) {
	l.Info("note saved", "note_id", noteID, "bytes", bytes)
}

// GraphBuilt records a graph extraction pass.
func (l *Logger) GraphBuilt(nodes, links int, took time.Duration) {
	l.Info("graph built",
		"nodes", nodes,
		"links", links,
		"duration", took.Round(time.Millisecond))
}
