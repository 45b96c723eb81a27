package challenge

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// PromptProvider asks the user to complete the challenge in a real browser
// and paste the resulting token.
type PromptProvider struct {
	// PageURL is shown to the user as the place to solve the challenge.
	PageURL  string
	Out      io.Writer
	ReadLine func(prompt string) (string, error)
}

func (p *PromptProvider) Ready(context.Context) error {
	if p.ReadLine == nil {
		return ErrChallengeUnavailable
	}
	return nil
}

func (p *PromptProvider) Execute(ctx context.Context, action string) (string, error) {
	if err := p.Ready(ctx); err != nil {
		return "", err
	}
	if p.Out != nil {
		fmt.Fprintf(p.Out, "Security verification required (%s).\n", action)
		if p.PageURL != "" {
			fmt.Fprintf(p.Out, "Open %s, complete the check and paste the token below.\n", p.PageURL)
		}
	}

	line, err := p.ReadLine("Token: ")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrChallengeUnavailable, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	token := strings.TrimSpace(line)
	if token == "" {
		return "", ErrChallengeUnavailable
	}
	return token, nil
}
