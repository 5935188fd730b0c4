// Package log provides structured logging for logitreg built on zerolog.
//
// Estimators obtain a named Logger once at construction and attach
// key/value pairs using the key constants declared in keys.go:
//
//	logger := log.GetLoggerWithName("linear_model").With(log.ModelNameKey, "LogisticRegression")
//	logger.Info("Training started", log.SamplesKey, 100, log.FeaturesKey, 4)
package log

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the structured logging interface used by estimators.
// fields alternate string keys and arbitrary values.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	With(fields ...interface{}) Logger
}

// LoggerProvider hands out loggers that share one output and level.
type LoggerProvider interface {
	GetLogger() Logger
	GetLoggerWithName(name string) Logger
}

type zerologLogger struct {
	zl zerolog.Logger
}

func (l *zerologLogger) Debug(msg string, fields ...interface{}) {
	l.zl.Debug().Fields(fields).Msg(msg)
}

func (l *zerologLogger) Info(msg string, fields ...interface{}) {
	l.zl.Info().Fields(fields).Msg(msg)
}

func (l *zerologLogger) Warn(msg string, fields ...interface{}) {
	l.zl.Warn().Fields(fields).Msg(msg)
}

// Error logs at error level. A leading error value is attached with Err.
func (l *zerologLogger) Error(msg string, fields ...interface{}) {
	ev := l.zl.Error()
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			ev = ev.Err(err)
			fields = fields[1:]
		}
	}
	ev.Fields(fields).Msg(msg)
}

func (l *zerologLogger) With(fields ...interface{}) Logger {
	return &zerologLogger{zl: l.zl.With().Fields(fields).Logger()}
}

// ZerologProvider is a LoggerProvider writing through a single zerolog.Logger.
type ZerologProvider struct {
	base zerolog.Logger
}

// NewZerologProvider creates a provider writing to stderr at the given level.
func NewZerologProvider(level zerolog.Level) *ZerologProvider {
	return NewZerologProviderWithWriter(os.Stderr, level)
}

// NewZerologProviderWithWriter creates a provider writing JSON lines to w.
func NewZerologProviderWithWriter(w io.Writer, level zerolog.Level) *ZerologProvider {
	return &ZerologProvider{
		base: zerolog.New(w).Level(level).With().Timestamp().Logger(),
	}
}

// GetLogger returns an unnamed Logger.
func (p *ZerologProvider) GetLogger() Logger {
	return &zerologLogger{zl: p.base}
}

// GetLoggerWithName returns a Logger tagged with the component name.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	return &zerologLogger{zl: p.base.With().Str(ComponentKey, name).Logger()}
}

// ToLogLevel parses a level name, falling back to info for unknown input.
func ToLogLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

var (
	mu       sync.RWMutex
	global   = zerolog.New(consoleWriter()).With().Timestamp().Logger()
	provider LoggerProvider
)

func consoleWriter() io.Writer {
	return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
}

// configure points the global logger and provider at the same writer.
func configure(w io.Writer, level string) {
	mu.Lock()
	defer mu.Unlock()
	lvl := ToLogLevel(level)
	global = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	provider = NewZerologProviderWithWriter(w, lvl)
}

// SetupLogger sends all logging to the console on stderr at the given level.
func SetupLogger(level string) {
	configure(consoleWriter(), level)
}

// SetOutput redirects all logging to w as JSON lines.
func SetOutput(w io.Writer, level string) {
	configure(w, level)
}

// GetLogger returns the global zerolog logger for ad-hoc structured events.
func GetLogger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := global
	return &l
}

// GetLoggerWithName returns a named Logger from the global provider.
func GetLoggerWithName(name string) Logger {
	mu.Lock()
	defer mu.Unlock()
	if provider == nil {
		provider = NewZerologProviderWithWriter(consoleWriter(), zerolog.InfoLevel)
	}
	return provider.GetLoggerWithName(name)
}

// LogError logs err with msg on the global logger.
func LogError(err error, msg string) {
	l := GetLogger()
	l.Error().Err(err).Msg(msg)
}
