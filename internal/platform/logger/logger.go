// Package logger provides leveled logging for the game. Session events carry
// the session ID so a run can be followed through the log.
package logger

import (
	"io"
	"log"
	"os"
)

// Logger provides structured logging with context.
type Logger struct {
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
}

// New creates a logger writing info and warnings to stdout and errors to stderr.
func New() *Logger {
	return NewWithWriters(os.Stdout, os.Stderr)
}

// NewWithWriters creates a logger with explicit destinations.
func NewWithWriters(out, errOut io.Writer) *Logger {
	flags := log.Ldate | log.Ltime | log.Lshortfile
	return &Logger{
		infoLogger:  log.New(out, "[PINEWOOD-INFO] ", flags),
		warnLogger:  log.New(out, "[PINEWOOD-WARN] ", flags),
		errorLogger: log.New(errOut, "[PINEWOOD-ERROR] ", flags),
	}
}

// Discard returns a logger that drops everything, for tests.
func Discard() *Logger {
	return NewWithWriters(io.Discard, io.Discard)
}

// Info logs informational messages.
func (l *Logger) Info(msg string) {
	l.infoLogger.Output(2, msg)
}

// Infof logs a formatted informational message.
func (l *Logger) Infof(format string, args ...any) {
	l.infoLogger.Printf(format, args...)
}

// Warn logs warning messages.
func (l *Logger) Warn(msg string) {
	l.warnLogger.Output(2, msg)
}

// Warnf logs a formatted warning.
func (l *Logger) Warnf(format string, args ...any) {
	l.warnLogger.Printf(format, args...)
}

// Error logs error messages.
func (l *Logger) Error(msg string) {
	l.errorLogger.Output(2, msg)
}

// Errorf logs a formatted error.
func (l *Logger) Errorf(format string, args ...any) {
	l.errorLogger.Printf(format, args...)
}

// Event logs a gameplay event for a session.
func (l *Logger) Event(eventType string, sessionID string, details string) {
	l.infoLogger.Printf("[EVENT:%s] Session:%s | %s", eventType, sessionID, details)
}
