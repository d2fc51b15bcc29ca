// Package telemetry provides logging and metrics for key resolution runs.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/szaher/mapskey/internal/secrets"
)

type contextKey string

const runIDKey contextKey = "run_id"

// NewLogger creates a structured logger whose output passes through a
// RedactFilter. Register the resolved key on the returned filter before
// logging anything that may contain it.
func NewLogger(w io.Writer, level slog.Level, format string) (*slog.Logger, *secrets.RedactFilter) {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	filter := secrets.NewRedactFilter(handler)
	return slog.New(filter), filter
}

// ParseLevel maps debug|info|warn|error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// WithRunID adds a run ID to the context.
// If id is empty, a new ULID is generated.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = ulid.Make().String()
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunID retrieves the run ID from context.
func RunID(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// RunLogger returns a logger carrying the run ID and the variable being resolved.
func RunLogger(ctx context.Context, logger *slog.Logger, variable string) *slog.Logger {
	attrs := []any{
		slog.String("variable", variable),
	}
	if id := RunID(ctx); id != "" {
		attrs = append(attrs, slog.String("run_id", id))
	}
	return logger.With(attrs...)
}
