package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Output formats accepted by New.
const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatConsole = "console"
	FormatZerolog = "zerolog"
)

// Options selects the backend and verbosity of the logger built by New.
type Options struct {
	// Level is one of trace, debug, info, warn, error. Unknown values mean info.
	Level string
	// Format is text or json (slog), console or zerolog (zerolog).
	Format string
	// Output defaults to os.Stderr so log lines do not mix with REPL output.
	Output io.Writer
}

// New builds a Logger from opts.
func New(opts Options) Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	switch format {
	case FormatConsole, FormatZerolog:
		zerolog.TimeFieldFormat = time.RFC3339Nano
		w := out
		if format == FormatConsole {
			w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		}
		zl := zerolog.New(w).Level(parseZerologLevel(opts.Level)).With().Timestamp().Logger()
		return NewZerologLogger(zl)
	case FormatJSON:
		h := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: parseSlogLevel(opts.Level)})
		return NewSlogLogger(slog.New(h))
	default:
		h := slog.NewTextHandler(out, &slog.HandlerOptions{Level: parseSlogLevel(opts.Level)})
		return NewSlogLogger(slog.New(h))
	}
}

func parseZerologLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
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

// slog has no trace level; trace maps to debug.
func parseSlogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace", "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
