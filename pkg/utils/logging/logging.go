package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/masq"
	"github.com/secmon-lab/themis/pkg/domain/model/auth"
)

var defaultLogger *slog.Logger

func init() {
	defaultLogger = slog.New(NewConsoleHandler(os.Stdout, slog.LevelInfo))
}

// NewConsoleHandler builds the clog console handler with secret redaction.
// Token secrets are masked regardless of log level.
func NewConsoleHandler(w io.Writer, level slog.Level) slog.Handler {
	return clog.New(
		clog.WithWriter(w),
		clog.WithLevel(level),
		clog.WithReplaceAttr(Redactor()),
	)
}

// NewJSONHandler builds a slog JSON handler with the same redaction rules,
// for structured log collection in deployed environments.
func NewJSONHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: Redactor(),
	})
}

// Redactor returns the attribute filter that masks token secrets
func Redactor() func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(
		masq.WithType[auth.TokenSecret](),
	)
}

// Default returns the process-wide logger
func Default() *slog.Logger {
	return defaultLogger
}

// SetDefault replaces the process-wide logger
func SetDefault(logger *slog.Logger) {
	defaultLogger = logger
}

type ctxLoggerKey struct{}

// With attaches the logger to the context
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxLoggerKey{}, logger)
}

// From retrieves the logger from the context, falling back to the default
func From(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxLoggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return defaultLogger
}
