package challenge

import "context"

// StaticProvider hands out a fixed token. With Cloudflare's test site keys
// any token passes, which makes this the provider for local development.
type StaticProvider struct {
	Token string
	// Passive makes the token available before the server asks for one.
	Passive bool
}

func (p *StaticProvider) Ready(context.Context) error {
	if p.Token == "" {
		return ErrChallengeUnavailable
	}
	return nil
}

func (p *StaticProvider) Execute(ctx context.Context, _ string) (string, error) {
	if err := p.Ready(ctx); err != nil {
		return "", err
	}
	return p.Token, nil
}

func (p *StaticProvider) PassiveToken(context.Context) (string, bool) {
	if !p.Passive || p.Token == "" {
		return "", false
	}
	return p.Token, true
}

// NoneProvider never has a token. Flows still work against servers that do
// not ask for one.
type NoneProvider struct{}

func (NoneProvider) Ready(context.Context) error { return ErrChallengeUnavailable }

func (NoneProvider) Execute(context.Context, string) (string, error) {
	return "", ErrChallengeUnavailable
}
