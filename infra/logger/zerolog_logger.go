package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu      sync.RWMutex
	output  io.Writer = os.Stderr
	level             = ""
	console           = false
	forced            = false
)

// Configure sets the level ("debug", "info", ...) and format ("json" or
// "console") of loggers created afterwards. Empty values keep the
// environment defaults.
func Configure(lvl, format string) error {
	if lvl != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(lvl)); err != nil {
			return fmt.Errorf("log level %q: %w", lvl, err)
		}
	}
	switch format {
	case "", "json", "console":
	default:
		return fmt.Errorf("log format must be json or console, got %q", format)
	}
	mu.Lock()
	defer mu.Unlock()
	level = strings.ToLower(lvl)
	if format != "" {
		console = format == "console"
		forced = true
	}
	return nil
}

// SetOutput redirects loggers created afterwards. Logs go to stderr by
// default so that reports written to stdout stay clean.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// ZerologLogger implements Logger using rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger creates a ZerologLogger. APP_ENV=dev selects the console
// writer unless Configure forced a format. All logs include the provided
// component field.
func NewZerologLogger(component string) Logger {
	mu.RLock()
	w, lvl, useConsole, isForced := output, level, console, forced
	mu.RUnlock()

	if !isForced {
		useConsole = strings.ToLower(os.Getenv("APP_ENV")) == "dev"
	}
	if lvl == "" {
		lvl = strings.ToLower(os.Getenv("LOG_LEVEL"))
	}
	parsed, err := zerolog.ParseLevel(lvl)
	if err != nil || lvl == "" {
		parsed = zerolog.InfoLevel
	}

	if useConsole {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	z := zerolog.New(w).Level(parsed).With().Timestamp().Str("component", component).Logger()
	return &ZerologLogger{log: z}
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	ev := l.log.Debug()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Infow(msg string, fields map[string]any) {
	ev := l.log.Info()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
