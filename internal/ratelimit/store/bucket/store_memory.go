// Package bucket holds the per-key request buckets behind the rate limiter.
package bucket

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"escriba/internal/ratelimit/models"
)

// InMemoryBucketStore keeps one token bucket per key. Buckets idle longer
// than the TTL are dropped by Cleanup.
type InMemoryBucketStore struct {
	mu      sync.Mutex
	buckets map[string]*entry
	rps     rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type MemoryOption func(*InMemoryBucketStore)

func WithIdleTTL(d time.Duration) MemoryOption {
	return func(s *InMemoryBucketStore) { s.idleTTL = d }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *InMemoryBucketStore) { s.now = now }
}

// NewInMemory refills rps tokens per second up to burst.
func NewInMemory(rps float64, burst int, opts ...MemoryOption) *InMemoryBucketStore {
	s := &InMemoryBucketStore{
		buckets: make(map[string]*entry),
		rps:     rate.Limit(rps),
		burst:   burst,
		idleTTL: 15 * time.Minute,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Allow takes one token from the bucket for key.
func (s *InMemoryBucketStore) Allow(_ context.Context, key string) (*models.Result, error) {
	now := s.now()

	s.mu.Lock()
	e, ok := s.buckets[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(s.rps, s.burst)}
		s.buckets[key] = e
	}
	e.lastSeen = now
	s.mu.Unlock()

	res := &models.Result{Limit: s.burst}
	if e.limiter.AllowN(now, 1) {
		res.Allowed = true
		res.Remaining = int(e.limiter.TokensAt(now))
		return res, nil
	}
	res.RetryAfter = time.Duration(float64(time.Second) / float64(s.rps))
	return res, nil
}

// Cleanup drops buckets idle for longer than the TTL.
func (s *InMemoryBucketStore) Cleanup() {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	for k, e := range s.buckets {
		if e.lastSeen.Before(cutoff) {
			delete(s.buckets, k)
		}
	}
}

// StartJanitor runs Cleanup every interval until ctx is done.
func (s *InMemoryBucketStore) StartJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}

// Len is the number of live buckets.
func (s *InMemoryBucketStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}
