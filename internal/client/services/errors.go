package services

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInProgress is returned when the same flow is already running.
	// Callers treat it as a no-op.
	ErrInProgress = errors.New("request already in progress")
	// ErrChallengeRequired means the server still demanded a challenge token
	// after the single retry.
	ErrChallengeRequired = errors.New("security verification required")
	// ErrNoPendingEmail means there is no email waiting for a code.
	ErrNoPendingEmail = errors.New("email not found, please start again")
)

// CooldownError is returned when a code was re-sent too recently.
type CooldownError struct {
	Wait time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("please wait %ds before requesting another code", int(e.Wait.Round(time.Second).Seconds()))
}
