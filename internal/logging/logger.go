// Package logging wraps zerolog with subsystem-scoped child loggers.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var levelNames = map[string]zerolog.Level{
	"trace":  zerolog.TraceLevel,
	"debug":  zerolog.DebugLevel,
	"info":   zerolog.InfoLevel,
	"warn":   zerolog.WarnLevel,
	"error":  zerolog.ErrorLevel,
	"fatal":  zerolog.FatalLevel,
	"silent": zerolog.Disabled,
}

// Logger is a zerolog.Logger with a subsystem tag attached to every line.
type Logger struct {
	zl zerolog.Logger
}

// New builds the root logger at the named level. A nil writer means pretty
// console output on stderr, which is what interactive runs want.
func New(w io.Writer, level string) *Logger {
	if w == nil {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	zl := zerolog.New(w).Level(parseLevel(level)).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// Sub returns a child logger tagged with subsystem. Tags accumulate, so
// log.Sub("gateway").Sub("ws") carries both.
func (l *Logger) Sub(subsystem string) *Logger {
	return &Logger{zl: l.zl.With().Str("subsystem", subsystem).Logger()}
}

func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// Zerolog exposes the wrapped logger for callers that need raw zerolog.
func (l *Logger) Zerolog() *zerolog.Logger { return &l.zl }

func parseLevel(s string) zerolog.Level {
	if lvl, ok := levelNames[s]; ok {
		return lvl
	}
	return zerolog.InfoLevel
}
