package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

const redacted = "[REDACTED]"

// sensitiveKeys never reach the log output with their value. Matching is
// case-insensitive.
var sensitiveKeys = map[string]struct{}{
	"password":        {},
	"newpassword":     {},
	"confirmpassword": {},
	"otpcode":         {},
	"token":           {},
	"accesstoken":     {},
	"refreshtoken":    {},
	"idtoken":         {},
	"turnstiletoken":  {},
	"captchatoken":    {},
}

func isSensitive(key string) bool {
	_, ok := sensitiveKeys[strings.ToLower(key)]
	return ok
}

// redactAttr is a slog ReplaceAttr hook.
func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if isSensitive(a.Key) {
		return slog.String(a.Key, redacted)
	}
	return a
}

// redactArgs masks the values of sensitive keys in a key-value list.
func redactArgs(args []any) []any {
	var out []any
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || !isSensitive(key) {
			continue
		}
		if out == nil {
			out = append([]any(nil), args...)
		}
		out[i+1] = redacted
	}
	if out == nil {
		return args
	}
	return out
}

func newSlogHandler(format string, w io.Writer, lvl slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: lvl, ReplaceAttr: redactAttr}
	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// SlogLogger adapts *slog.Logger to Logger. The context is passed through
// to the handler.
type SlogLogger struct {
	l *slog.Logger
}

func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

func (s *SlogLogger) log(ctx context.Context, lvl slog.Level, msg string, args []any) {
	if ctx == nil {
		ctx = context.Background()
	}
	s.l.Log(ctx, lvl, msg, args...)
}

func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelDebug, msg, args)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelInfo, msg, args)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelWarn, msg, args)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelError, msg, args)
}

func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: s.l.With(args...)}
}
