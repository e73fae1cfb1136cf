package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitRepository keeps fixed-window request counters in Redis
type RateLimitRepository struct {
	client *redis.Client
}

func NewRateLimitRepository(client *redis.Client) *RateLimitRepository {
	return &RateLimitRepository{client: client}
}

// Hit increments the counter of key for the current window and returns the
// new count. The window starts with the first hit. INCR and EXPIRE NX run in
// one MULTI block so a counter never outlives its window.
func (r *RateLimitRepository) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	k := fmt.Sprintf("ratelimit:%s", key)

	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, window)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
