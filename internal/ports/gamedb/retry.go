package gamedb

import (
	"context"
	"time"
)

// RetryPolicy retries a failing write with doubling delays.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
}

// DefaultRetry tolerates brief lock contention without stalling a game.
var DefaultRetry = RetryPolicy{Attempts: 3, BaseDelay: 50 * time.Millisecond}

// Do runs op until it succeeds, attempts are exhausted, or ctx is done.
func (p RetryPolicy) Do(ctx context.Context, op func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	delay := p.BaseDelay
	var err error
	for i := 0; i < attempts; i++ {
		if err = op(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}
