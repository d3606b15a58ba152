// Package log provides colored, prefixed loggers for the application components.
package log

import (
	"errors"
	"fmt"
	"io"
	"log"
)

const (
	errorColor   = "\033[31m"
	infoColor    = "\033[32m"
	warningColor = "\033[33m"
	colorReset   = "\033[0m"
)

var ErrNilWriter = errors.New("logger writer is nil")

// Logger writes "[PREFIX] [LEVEL] message" lines.
type Logger struct {
	out *log.Logger
}

// New creates a Logger tagged with prefix, drawn in color, writing to w.
func New(prefix, color string, w io.Writer) (*Logger, error) {
	if w == nil {
		return nil, ErrNilWriter
	}

	tag := fmt.Sprintf("%s[%s]%s ", color, prefix, colorReset)
	return &Logger{
		out: log.New(w, tag, log.LstdFlags),
	}, nil
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.out.Printf("%s[INFO]%s %s", infoColor, colorReset, msg)
}

// Warning logs a recoverable problem.
func (l *Logger) Warning(msg string) {
	l.out.Printf("%s[WARNING]%s %s", warningColor, colorReset, msg)
}

// Error logs a failure.
func (l *Logger) Error(msg string) {
	l.out.Printf("%s[ERROR]%s %s", errorColor, colorReset, msg)
}
