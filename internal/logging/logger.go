package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// New creates a configured application logger.
// It writes text to Stderr (to keep Stdout for the world, the REPL and JSON-RPC)
// and JSON lines to every sink, e.g. an append-only log file.
// It standardizes common keys (e.g., "error" -> "err").
func New(level slog.Level, sinks ...io.Writer) *slog.Logger {
	return NewWithWriter(os.Stderr, level, sinks...)
}

// NewWithWriter is New with the console writer made explicit.
func NewWithWriter(console io.Writer, level slog.Level, sinks ...io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: standardKeys,
	}

	handlers := []slog.Handler{slog.NewTextHandler(console, opts)}
	for _, w := range sinks {
		handlers = append(handlers, slog.NewJSONHandler(w, opts))
	}
	if len(handlers) == 1 {
		return slog.New(handlers[0])
	}
	return slog.New(slogmulti.Fanout(handlers...))
}

func standardKeys(groups []string, a slog.Attr) slog.Attr {
	// Standardize 'error' key to 'err'
	if a.Key == "error" {
		a.Key = "err"
	}
	return a
}

// ParseLevel accepts debug, info, warn and error, case-insensitively.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
