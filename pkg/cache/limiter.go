package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter counts hits per key inside a fixed window.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, period time.Duration) (bool, error)
}

// fixedWindowScript increments the counter and arms its expiry in one step.
// A counter found without a TTL gets one too.
var fixedWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 or redis.call("PTTL", KEYS[1]) < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

type redisLimiter struct {
	client redis.UniversalClient
}

func NewRedisLimiter(client redis.UniversalClient) Limiter {
	return &redisLimiter{client: client}
}

// Allow increments the counter for key. The window starts with the first hit
// and the key expires with it.
func (l *redisLimiter) Allow(ctx context.Context, key string, limit int, period time.Duration) (bool, error) {
	if l.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	count, err := fixedWindowScript.Run(ctx, l.client, []string{key}, period.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("rate limit %s: %w", key, err)
	}

	return count <= int64(limit), nil
}
