package challenge

import (
	"context"
	"errors"
	"time"
)

const (
	DefaultPollInterval = 250 * time.Millisecond
	DefaultTimeout      = 30 * time.Second
)

// Poll calls fn every interval until it returns a non-empty value. It gives
// up with ErrChallengeTimeout after timeout, or with ctx's error when ctx
// ends first. An error from fn stops the poll.
func Poll(ctx context.Context, interval, timeout time.Duration, fn func(context.Context) (string, error)) (string, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	expired := func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return ErrChallengeTimeout
	}

	for {
		v, err := fn(pctx)
		if err != nil {
			if pctx.Err() != nil && errors.Is(err, pctx.Err()) {
				return "", expired()
			}
			return "", err
		}
		if v != "" {
			return v, nil
		}

		select {
		case <-pctx.Done():
			return "", expired()
		case <-ticker.C:
		}
	}
}
