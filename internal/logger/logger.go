package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type LogLevel int

const (
	LogLevelNone LogLevel = iota
	LogLevelError
	LogLevelWarning
	LogLevelInfo
	LogLevelDebug
)

type Logger struct {
	logger zerolog.Logger
	level  LogLevel
	tag    string
}

// NewLogger builds a leveled logger writing JSON lines to out. A nil writer
// discards everything.
func NewLogger(out io.Writer, level LogLevel) *Logger {
	if out == nil {
		out = io.Discard
	}
	return &Logger{
		logger: zerolog.New(out).With().Timestamp().Logger(),
		level:  level,
	}
}

// NewConsoleLogger builds a human readable logger for interactive runs.
func NewConsoleLogger(out io.Writer, level LogLevel) *Logger {
	if out == nil {
		out = os.Stdout
	}
	w := zerolog.ConsoleWriter{Out: out, TimeFormat: time.StampMicro}
	return &Logger{
		logger: zerolog.New(w).With().Timestamp().Logger(),
		level:  level,
	}
}

// WithTag creates a new logger with a tag prefix
func (l *Logger) WithTag(tag string) *Logger {
	return &Logger{
		logger: l.logger.With().Str("component", tag).Logger(),
		level:  l.level,
		tag:    tag,
	}
}

// Tag returns the component tag, empty for the root logger.
func (l *Logger) Tag() string {
	return l.tag
}

func (l *Logger) Level() LogLevel {
	return l.level
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	if l.level >= LogLevelDebug {
		l.logger.Debug().Msgf(format, v...)
	}
}

func (l *Logger) Infof(format string, v ...interface{}) {
	if l.level >= LogLevelInfo {
		l.logger.Info().Msgf(format, v...)
	}
}

// Printf is an alias for Infof for compatibility
func (l *Logger) Printf(format string, v ...interface{}) {
	l.Infof(format, v...)
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	if l.level >= LogLevelWarning {
		l.logger.Warn().Msgf(format, v...)
	}
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	if l.level >= LogLevelError {
		l.logger.Error().Msgf(format, v...)
	}
}

func (l *Logger) Fatalf(format string, v ...interface{}) {
	l.logger.Fatal().Msgf(format, v...)
}
