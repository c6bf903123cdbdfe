package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"escriba/internal/ratelimit/models"
	"escriba/internal/ratelimit/store/bucket"
	"escriba/pkg/platform/circuit"
	"escriba/pkg/requestcontext"
	"escriba/pkg/testutil"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func ok() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func request(ip string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/situacoes", nil)
	return req.WithContext(requestcontext.WithClientMetadata(req.Context(), ip, "test"))
}

func TestRateLimitRefusesOverBurst(t *testing.T) {
	limiter := NewLimiter(bucket.NewInMemory(1, 2))
	h := New(limiter, discard).RateLimit(ok())

	for range 2 {
		rr := testutil.DoRequest(h, request("10.0.0.1"))
		require.Equal(t, http.StatusNoContent, rr.Code)
	}

	rr := testutil.DoRequest(h, request("10.0.0.1"))
	testutil.AssertStatusAndError(t, rr, http.StatusTooManyRequests, "rate_limited")
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))
	assert.Equal(t, "2", rr.Header().Get("X-RateLimit-Limit"))

	rr = testutil.DoRequest(h, request("10.0.0.2"))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

type brokenStore struct {
	err   error
	calls int
}

func (b *brokenStore) Allow(context.Context, string) (*models.Result, error) {
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	return &models.Result{Allowed: true, Limit: 10, Remaining: 9}, nil
}

func TestRateLimitFailsOpen(t *testing.T) {
	h := New(NewLimiter(&brokenStore{err: errors.New("redis down")}), discard).RateLimit(ok())
	assert.Equal(t, http.StatusNoContent, testutil.DoRequest(h, request("10.0.0.1")).Code)
}

// =============================================================================
// Limiter fallback
// =============================================================================

type LimiterSuite struct {
	suite.Suite
	primary  *brokenStore
	limiter  *Limiter
	degraded []bool
}

func TestLimiterSuite(t *testing.T) {
	suite.Run(t, new(LimiterSuite))
}

func (s *LimiterSuite) SetupTest() {
	s.primary = &brokenStore{}
	s.degraded = nil
	s.limiter = NewLimiter(s.primary,
		WithFallback(bucket.NewInMemory(100, 1), circuit.New("test", circuit.WithFailureThreshold(2), circuit.WithSuccessThreshold(2))),
		WithLimiterLogger(discard),
		WithDegradedHook(func(d bool) { s.degraded = append(s.degraded, d) }),
	)
}

func (s *LimiterSuite) TestPrimaryHealthy() {
	res, degraded, err := s.limiter.Check(context.Background(), "10.0.0.1")
	s.Require().NoError(err)
	s.False(degraded)
	s.Equal(10, res.Limit)
}

func (s *LimiterSuite) TestOpensAfterThresholdAndRecovers() {
	ctx := context.Background()
	s.primary.err = errors.New("redis down")

	_, _, err := s.limiter.Check(ctx, "10.0.0.1")
	s.Error(err, "below threshold the error surfaces")

	res, degraded, err := s.limiter.Check(ctx, "10.0.0.1")
	s.Require().NoError(err)
	s.True(degraded)
	s.Equal(1, res.Limit, "fallback bucket answered")
	s.Equal([]bool{true}, s.degraded)

	s.primary.err = nil
	_, degraded, _ = s.limiter.Check(ctx, "10.0.0.2")
	s.True(degraded, "still open until enough successes")

	_, degraded, _ = s.limiter.Check(ctx, "10.0.0.3")
	s.False(degraded)
	s.Equal([]bool{true, false}, s.degraded)
}

func TestDegradedHeader(t *testing.T) {
	rr := httptest.NewRecorder()
	addRateLimitHeaders(rr, &models.Result{Limit: 3, Remaining: 0, RetryAfter: 1500 * time.Millisecond}, true)
	assert.Equal(t, "degraded", rr.Header().Get("X-RateLimit-Status"))
}
