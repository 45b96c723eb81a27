package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG", "msg=dbg", "a=1",
		"level=INFO", "msg=inf", "b=2",
		"level=WARN", "msg=wrn", "c=3",
		"level=ERROR", "msg=err", "d=4",
	} {
		assert.Contains(t, out, want)
	}
}

func TestSlogLogger_With(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("flow", "login").Info(context.Background(), "retrying", "attempt", 2)

	out := buf.String()
	assert.Contains(t, out, "flow=login")
	assert.Contains(t, out, "attempt=2")
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New("text", "warn", &buf)

	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	New("json", "info", &buf).Info(context.Background(), "hello", "k", "v")

	assert.True(t, strings.HasPrefix(buf.String(), "{"))
	assert.Contains(t, buf.String(), `"k":"v"`)
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New("text", "chatty", &buf)

	log.Debug(context.Background(), "dbg")
	log.Info(context.Background(), "inf")

	assert.NotContains(t, buf.String(), "msg=dbg")
	assert.Contains(t, buf.String(), "msg=inf")
}

func TestNop_DoesNotPanic(t *testing.T) {
	l := Nop()
	l.Info(context.TODO(), "x")
	l.With("a", 1).Error(context.TODO(), "y")
}

func TestNew_RedactsCredentials(t *testing.T) {
	for _, format := range []string{"text", "json", "zap"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(format, "debug", &buf)

			log.With("idToken", "eyJhbGciOi").Info(context.Background(), "login",
				"email", "ann@example.com", "password", "Secret1!", "turnstileToken", "tok-123")

			out := buf.String()
			assert.Contains(t, out, "ann@example.com")
			assert.NotContains(t, out, "Secret1!")
			assert.NotContains(t, out, "tok-123")
			assert.NotContains(t, out, "eyJhbGciOi")
			assert.Contains(t, out, redacted)
		})
	}
}

func TestRedactArgs_LeavesInputAlone(t *testing.T) {
	args := []any{"password", "x", "n", 1}
	got := redactArgs(args)

	assert.Equal(t, []any{"password", redacted, "n", 1}, got)
	assert.Equal(t, "x", args[1])

	clean := []any{"email", "a@b.c"}
	assert.Equal(t, clean, redactArgs(clean))
}
