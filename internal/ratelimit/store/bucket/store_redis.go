package bucket

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"escriba/internal/ratelimit/models"
)

// windowScript increments the counter for the current window and returns
// the new count with the window's remaining time in milliseconds.
var windowScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return {n, redis.call('PTTL', KEYS[1])}
`)

// RedisBucketStore shares limits across replicas with a fixed window per
// key: burst requests every burst/rps seconds.
type RedisBucketStore struct {
	client redis.Scripter
	limit  int
	window time.Duration
}

func NewRedis(client redis.Scripter, rps float64, burst int) *RedisBucketStore {
	return &RedisBucketStore{
		client: client,
		limit:  burst,
		window: time.Duration(float64(burst) / rps * float64(time.Second)),
	}
}

func (s *RedisBucketStore) Allow(ctx context.Context, key string) (*models.Result, error) {
	vals, err := windowScript.Run(ctx, s.client, []string{key}, s.window.Milliseconds()).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("redis rate window: %w", err)
	}
	if len(vals) != 2 {
		return nil, fmt.Errorf("redis rate window: unexpected reply %v", vals)
	}
	count, ttl := int(vals[0]), time.Duration(vals[1])*time.Millisecond

	res := &models.Result{Limit: s.limit}
	if count <= s.limit {
		res.Allowed = true
		res.Remaining = s.limit - count
		return res, nil
	}
	if ttl < 0 {
		ttl = s.window
	}
	res.RetryAfter = ttl
	return res, nil
}
