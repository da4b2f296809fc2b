// =============================================================================
// CSV Cleaner - Logging
// =============================================================================
//
// Builds the zerolog logger from the logging configuration and adapts it to
// the small key/value Logger interface used by the cleaner and the profiler.
//
// FORMATS:
//   console - human readable, colored when the output is a terminal
//   json    - one JSON object per line
//
// =============================================================================

// Package logging configures zerolog for the cleaner and exposes the small
// Logger interface the rest of the code depends on.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures a logger.
type Options struct {
	// Level is one of "debug", "info", "warn", "error" (default "info").
	Level string

	// Format is "console" for human readable output or "json".
	Format string

	// Output defaults to os.Stderr so that stdout stays free for command output.
	Output io.Writer
}

// Logger is the logging surface used by the cleaner, the CLI and the web form.
// Arguments after msg are alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// New builds a zerolog.Logger from opts.
//
// PARAMETERS:
//   - opts: Level, format and output. Zero values mean info, console and
//     os.Stderr.
//
// RETURNS:
//   - A logger with timestamps at the requested level.
func New(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var w io.Writer = out
	if !strings.EqualFold(opts.Format, "json") {
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(w).
		Level(ParseLevel(opts.Level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel converts a level name to a zerolog.Level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Adapt wraps a zerolog.Logger so it satisfies Logger.
func Adapt(l zerolog.Logger) Logger {
	return &adapter{l: l}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return Adapt(zerolog.Nop())
}

type adapter struct {
	l zerolog.Logger
}

func (a *adapter) Debug(msg string, args ...any) { a.l.Debug().Fields(args).Msg(msg) }
func (a *adapter) Info(msg string, args ...any)  { a.l.Info().Fields(args).Msg(msg) }
func (a *adapter) Warn(msg string, args ...any)  { a.l.Warn().Fields(args).Msg(msg) }
func (a *adapter) Error(msg string, args ...any) { a.l.Error().Fields(args).Msg(msg) }
