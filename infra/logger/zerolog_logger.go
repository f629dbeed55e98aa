package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options tune the zerolog output.
type Options struct {
	// Level is a zerolog level name; empty means info.
	Level string
	// Format is "console" or "json"; empty picks console when APP_ENV=dev.
	Format string
	// Out defaults to stderr so stdout stays free for command output.
	Out io.Writer
}

// ZerologLogger implements Logger using rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger creates a ZerologLogger using the APP_ENV environment variable
// to determine the output format. All logs include the provided component field.
func NewZerologLogger(component string) Logger {
	l, _ := NewWithOptions(component, Options{})
	return l
}

// NewWithOptions creates a ZerologLogger with an explicit level and format.
// An unknown level falls back to info and is reported as an error.
func NewWithOptions(component string, opts Options) (*ZerologLogger, error) {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	format := strings.ToLower(opts.Format)
	if format == "" && strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		format = "console"
	}
	if format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	level := zerolog.InfoLevel
	var err error
	if opts.Level != "" {
		var parsed zerolog.Level
		parsed, err = zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err == nil {
			level = parsed
		}
	}
	z := zerolog.New(out).Level(level).With().Timestamp().Str("component", component).Logger()
	return &ZerologLogger{log: z}, err
}

// With returns a child logger tagged with a module field.
func (l *ZerologLogger) With(module string) *ZerologLogger {
	return &ZerologLogger{log: l.log.With().Str("module", module).Logger()}
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

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
