// Package middleware enforces the per-client request limit on the API.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	ratelimitmetrics "escriba/internal/ratelimit/metrics"
	"escriba/internal/ratelimit/models"
	dErrors "escriba/pkg/domain-errors"
	"escriba/pkg/platform/httputil"
	"escriba/pkg/requestcontext"
)

type RateLimiter interface {
	Check(ctx context.Context, ip string) (*models.Result, bool, error)
}

type Middleware struct {
	limiter RateLimiter
	logger  *slog.Logger
	metrics *ratelimitmetrics.Metrics
}

type Option func(*Middleware)

func WithMetrics(metrics *ratelimitmetrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = metrics
	}
}

func New(limiter RateLimiter, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		limiter: limiter,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RateLimit limits requests per client IP. Limiter errors fail open.
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ip := requestcontext.ClientIP(ctx)

		result, degraded, err := m.limiter.Check(ctx, ip)
		if err != nil {
			m.metrics.IncrementDecision("error")
			m.logger.ErrorContext(ctx, "failed to check rate limit",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
			next.ServeHTTP(w, r)
			return
		}

		addRateLimitHeaders(w, result, degraded)
		if !result.Allowed {
			m.metrics.IncrementDecision("limited")
			m.logger.WarnContext(ctx, "rate limit exceeded",
				"request_id", requestcontext.RequestID(ctx),
				"client_ip", ip,
			)
			w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfterSeconds()))
			httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "too many requests, please retry later"))
			return
		}

		m.metrics.IncrementDecision("allowed")
		next.ServeHTTP(w, r)
	})
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.Result, degraded bool) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	if degraded {
		w.Header().Set("X-RateLimit-Status", "degraded")
	}
}
