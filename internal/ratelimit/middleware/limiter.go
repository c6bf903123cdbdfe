package middleware

import (
	"context"
	"log/slog"

	"escriba/internal/ratelimit/models"
	"escriba/pkg/platform/circuit"
)

// BucketStore takes one request from the bucket for key.
type BucketStore interface {
	Allow(ctx context.Context, key string) (*models.Result, error)
}

// Limiter checks the primary store and switches to the in-memory fallback
// while the primary keeps failing. A nil fallback makes it a plain
// pass-through to the primary.
type Limiter struct {
	primary  BucketStore
	fallback BucketStore
	breaker  *circuit.Breaker
	logger   *slog.Logger
	onChange func(degraded bool)
}

type LimiterOption func(*Limiter)

func WithFallback(fallback BucketStore, breaker *circuit.Breaker) LimiterOption {
	return func(l *Limiter) {
		l.fallback = fallback
		l.breaker = breaker
	}
}

func WithLimiterLogger(logger *slog.Logger) LimiterOption {
	return func(l *Limiter) { l.logger = logger }
}

// WithDegradedHook is called whenever the limiter enters or leaves
// degraded mode.
func WithDegradedHook(fn func(degraded bool)) LimiterOption {
	return func(l *Limiter) { l.onChange = fn }
}

func NewLimiter(primary BucketStore, opts ...LimiterOption) *Limiter {
	l := &Limiter{primary: primary, logger: slog.Default(), onChange: func(bool) {}}
	for _, opt := range opts {
		opt(l)
	}
	if l.fallback != nil && l.breaker == nil {
		l.breaker = circuit.New("ratelimit")
	}
	return l
}

// Check returns the decision for ip and whether it came from the fallback.
func (l *Limiter) Check(ctx context.Context, ip string) (*models.Result, bool, error) {
	key := models.ClientKey(ip)
	res, err := l.primary.Allow(ctx, key)
	if l.fallback == nil {
		return res, false, err
	}

	if err != nil {
		useFallback, change := l.breaker.RecordFailure()
		if change.Opened {
			l.logger.WarnContext(ctx, "rate limiter degraded, using in-memory fallback",
				"breaker", l.breaker.Name(),
				"state", l.breaker.State().String(),
				"error", err,
			)
			l.onChange(true)
		}
		if !useFallback {
			return nil, false, err
		}
		res, err = l.fallback.Allow(ctx, key)
		return res, true, err
	}

	usePrimary, change := l.breaker.RecordSuccess()
	if change.Closed {
		l.logger.InfoContext(ctx, "rate limiter recovered",
			"breaker", l.breaker.Name(),
			"state", l.breaker.State().String(),
		)
		l.onChange(false)
	}
	if !usePrimary {
		res, err = l.fallback.Allow(ctx, key)
		return res, true, err
	}
	return res, false, nil
}
