package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Decision is the outcome of a single rate limit check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	// ResetAt is when the oldest counted request leaves the window.
	ResetAt time.Time
}

// RetryAfter is the whole number of seconds until ResetAt, rounded up.
func (d Decision) RetryAfter(now time.Time) int {
	wait := d.ResetAt.Sub(now)
	if wait <= 0 {
		return 0
	}
	return int((wait + time.Second - 1) / time.Second)
}

// Limiter is a sliding window limiter over Redis sorted sets. Every accepted
// request is a member scored by arrival time in nanoseconds. Rejected
// attempts are removed again, so a client retrying while limited cannot
// push its own window forward.
type Limiter struct {
	Client *redis.Client
	Prefix string
	Now    func() time.Time
}

func (l Limiter) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

// Allow counts one request against key. With no client, or a non-positive
// window or max, every request is allowed.
func (l Limiter) Allow(ctx context.Context, key string, window time.Duration, max int) (Decision, error) {
	now := l.now()
	if max < 0 {
		max = 0
	}
	d := Decision{Allowed: true, Limit: max, Remaining: max, ResetAt: now.Add(window)}
	if l.Client == nil || max == 0 || window <= 0 {
		return d, nil
	}

	redisKey := l.Prefix + key
	member := key + ":" + uuid.NewString()
	cutoff := "(" + strconv.FormatInt(now.Add(-window).UnixNano(), 10)

	pipe := l.Client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", cutoff)
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: member})
	count := pipe.ZCard(ctx, redisKey)
	oldest := pipe.ZRangeWithScores(ctx, redisKey, 0, 0)
	pipe.PExpire(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{Limit: max, ResetAt: now.Add(window)}, err
	}

	if first := oldest.Val(); len(first) > 0 {
		d.ResetAt = time.Unix(0, int64(first[0].Score)).Add(window)
	}
	current := int(count.Val())
	if current <= max {
		d.Remaining = max - current
		return d, nil
	}

	d.Allowed = false
	d.Remaining = 0
	if err := l.Client.ZRem(ctx, redisKey, member).Err(); err != nil {
		return d, err
	}
	return d, nil
}
