package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/comparehub/internal/client/client"
	"github.com/dmitrijs2005/comparehub/internal/client/forms"
	"github.com/dmitrijs2005/comparehub/internal/client/services"
)

const (
	msgChallengeFailed = "Security verification failed. Please try again."
	msgNetwork         = "Network error. Please check your connection and try again."
)

var errUsage = errors.New("usage")

type usageError struct{ usage string }

func (e usageError) Error() string { return "Usage: " + e.usage }
func (e usageError) Unwrap() error { return errUsage }

func usage(u string) error { return usageError{usage: u} }

// userMessage turns an error into the line shown to the user. An empty
// result means nothing should be shown.
func userMessage(err error) string {
	var (
		ve *forms.ValidationError
		rf *client.RequestFailedError
		ce *services.CooldownError
	)

	switch {
	case err == nil, errors.Is(err, services.ErrInProgress):
		return ""
	case services.IsChallengeFailure(err):
		return msgChallengeFailed
	case errors.As(err, &ve):
		lines := make([]string, 0, len(ve.Fields))
		for _, f := range ve.Fields {
			lines = append(lines, "- "+f.Message)
		}
		return strings.Join(lines, "\n")
	case errors.As(err, &ce):
		return ce.Error()
	case errors.As(err, &rf):
		return rf.Message
	case errors.Is(err, client.ErrUnavailable):
		return msgNetwork
	case errors.Is(err, context.Canceled):
		return ""
	case errors.Is(err, errUsage):
		return err.Error()
	default:
		return fmt.Sprintf("error: %v", err)
	}
}

func (a *App) fail(err error) {
	if msg := userMessage(err); msg != "" {
		fmt.Fprintln(a.out, msg)
	}
}
