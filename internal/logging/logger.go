// Package logging defines the structured-logging interface used across the
// client. Two backends are provided: log/slog and zap.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are key-value pairs:
//
//	log.Info(ctx, "login ok", "email", email)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}

// New builds a Logger for the given format ("text", "json" or "zap") writing
// to w at the given level ("debug", "info", "warn", "error"). Values of
// credential-like keys (password, tokens, OTP codes) are redacted.
func New(format, level string, w io.Writer) Logger {
	lvl := parseLevel(level)

	format = strings.ToLower(format)
	if format == "zap" {
		return NewZapLogger(newZapCore(w, lvl))
	}
	return NewSlogLogger(slog.New(newSlogHandler(format, w, lvl)))
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
