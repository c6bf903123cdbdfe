package bucket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryAllowsBurstThenRefuses(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewInMemory(1, 2, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	first, err := s.Allow(ctx, "a")
	require.NoError(t, err)
	assert.True(t, first.Allowed)
	assert.Equal(t, 1, first.Remaining)

	second, _ := s.Allow(ctx, "a")
	assert.True(t, second.Allowed)
	assert.Equal(t, 0, second.Remaining)

	third, _ := s.Allow(ctx, "a")
	assert.False(t, third.Allowed)
	assert.Equal(t, time.Second, third.RetryAfter)

	other, _ := s.Allow(ctx, "b")
	assert.True(t, other.Allowed, "keys have separate buckets")

	now = now.Add(time.Second)
	refilled, _ := s.Allow(ctx, "a")
	assert.True(t, refilled.Allowed)
}

func TestInMemoryCleanupDropsIdleBuckets(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewInMemory(1, 1, WithIdleTTL(time.Minute), WithClock(func() time.Time { return now }))

	_, _ = s.Allow(context.Background(), "a")
	now = now.Add(30 * time.Second)
	_, _ = s.Allow(context.Background(), "b")
	require.Equal(t, 2, s.Len())

	now = now.Add(45 * time.Second)
	s.Cleanup()
	assert.Equal(t, 1, s.Len())
}
