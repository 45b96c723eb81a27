package challenge

import (
	"context"
	"errors"
)

var (
	// ErrChallengeTimeout means the widget did not produce a token in time.
	ErrChallengeTimeout = errors.New("security verification timeout")
	// ErrChallengeUnavailable means there is no widget to ask.
	ErrChallengeUnavailable = errors.New("security verification unavailable")
)

// Action names sent to the widget, one per challenge-capable flow.
const (
	ActionRegister           = "register"
	ActionLogin              = "login"
	ActionResendVerification = "resend_verification"
	ActionForgotPassword     = "forgot_password"
	ActionResendForgotCode   = "resend_forgot_code"
	ActionResetPassword      = "reset_password"
)

// Modes accepted by configuration.
const (
	ModeBrowser = "browser"
	ModePrompt  = "prompt"
	ModeStatic  = "static"
	ModeNone    = "none"
)

type Provider interface {
	// Ready returns nil once the provider can execute, or
	// ErrChallengeUnavailable.
	Ready(ctx context.Context) error
	// Execute produces a fresh token for action.
	Execute(ctx context.Context, action string) (string, error)
}

// Passive is implemented by providers that may already hold a token.
// The token is consumed by the call.
type Passive interface {
	PassiveToken(ctx context.Context) (string, bool)
}

// IsFailure reports whether err means "no token could be obtained".
func IsFailure(err error) bool {
	return errors.Is(err, ErrChallengeTimeout) || errors.Is(err, ErrChallengeUnavailable)
}
