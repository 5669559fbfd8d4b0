package config

import (
	"log"
	"os"
)

// Logger is a minimal leveled wrapper over the standard library's log
// package. No third-party structured-logging library appears anywhere in
// the retrieval pack — sentra's own VM and CLI log through the stdlib log
// package — so this port follows that precedent rather than introducing an
// unvalidated dependency.
type Logger struct {
	level LogLevel
	out   *log.Logger
}

// NewLogger builds a Logger gated at level, writing to os.Stderr.
func NewLogger(level LogLevel) *Logger {
	return &Logger{level: level, out: log.New(os.Stderr, "", log.LstdFlags)}
}

func (l *Logger) enabled(level LogLevel) bool {
	return l != nil && l.level >= level
}

func (l *Logger) Tracef(format string, args ...any) {
	if l.enabled(LogTrace) {
		l.out.Printf("TRACE "+format, args...)
	}
}

func (l *Logger) Debugf(format string, args ...any) {
	if l.enabled(LogDebug) {
		l.out.Printf("DEBUG "+format, args...)
	}
}

func (l *Logger) Infof(format string, args ...any) {
	if l.enabled(LogInfo) {
		l.out.Printf("INFO "+format, args...)
	}
}

func (l *Logger) Warnf(format string, args ...any) {
	if l.enabled(LogWarn) {
		l.out.Printf("WARN "+format, args...)
	}
}

func (l *Logger) Errorf(format string, args ...any) {
	if l.enabled(LogError) {
		l.out.Printf("ERROR "+format, args...)
	}
}
