// Package retry wraps store calls with the transient-failure retry policy:
// up to 3 attempts, exponential delays of 100ms, 300ms (capped at 2s), no jitter.
package retry

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/gymprogress/pkg"
)

const (
	DefaultMaxAttempts     = 3
	DefaultInitialInterval = 100 * time.Millisecond
	DefaultMultiplier      = 3
	DefaultMaxInterval     = 2 * time.Second
)

// messages some drivers and proxies put in otherwise untyped errors
var transientMessages = []string{
	"fetch failed",
	"etimedout",
	"econnrefused",
	"econnreset",
	"connection refused",
	"connection reset by peer",
}

type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	Multiplier      float64
	MaxInterval     time.Duration
	// OnRetry is called before sleeping ahead of the next attempt.
	OnRetry func(err error, wait time.Duration)
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     DefaultMaxAttempts,
		InitialInterval: DefaultInitialInterval,
		Multiplier:      DefaultMultiplier,
		MaxInterval:     DefaultMaxInterval,
	}
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.Multiplier = p.Multiplier
	b.MaxInterval = p.MaxInterval
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()

	maxRetries := 0
	if p.MaxAttempts > 1 {
		maxRetries = p.MaxAttempts - 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(maxRetries)), ctx)
}

// Do runs op until it succeeds, fails with a non-transient error, the attempts run out,
// or the context is done.
func Do(ctx context.Context, p Policy, op func(ctx context.Context) error) error {
	_, err := DoValue(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// DoValue is Do for operations returning a value.
func DoValue[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	attempt := 0
	return backoff.RetryNotifyWithData(
		func() (T, error) {
			attempt++
			res, err := op(ctx)
			if err == nil {
				return res, nil
			}
			if !IsTransient(err) {
				return res, backoff.Permanent(err)
			}
			return res, err
		},
		p.backOff(ctx),
		func(err error, wait time.Duration) {
			log.Warnf("retry: attempt %d/%d failed, retrying in %s: %s", attempt, p.MaxAttempts, wait, err)
			if p.OnRetry != nil {
				p.OnRetry(err, wait)
			}
		},
	)
}

// IsTransient reports whether err looks like a connectivity failure worth retrying.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	if pkg.IsConnectError(err) || pkg.IsConnectionException(err) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, m := range transientMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
