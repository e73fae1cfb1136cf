package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sbilibin2017/gw-expense-tracker/internal/logger"
)

// AnalyticsCacheRepository caches analytics reports per owner using Redis
type AnalyticsCacheRepository struct {
	client *redis.Client
	exp    time.Duration // expiration duration for cached reports
}

// NewAnalyticsCacheRepository creates a new repository instance with the given TTL
func NewAnalyticsCacheRepository(client *redis.Client, expiration time.Duration) *AnalyticsCacheRepository {
	return &AnalyticsCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func generationKey(userID uuid.UUID) string {
	return fmt.Sprintf("analytics:gen:%s", userID)
}

func analyticsKey(userID uuid.UUID, generation int64, key string) string {
	return fmt.Sprintf("analytics:%s:%d:%s", userID, generation, key)
}

// Generation returns the owner's current cache generation, 0 before the first write.
func (r *AnalyticsCacheRepository) Generation(ctx context.Context, userID uuid.UUID) (int64, error) {
	gen, err := r.client.Get(ctx, generationKey(userID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		logger.Log.Errorw("cache generation read failed", "userID", userID, "error", err)
		return 0, err
	}
	return gen, nil
}

// Get decodes the cached report into dst. found is false on a cache miss.
func (r *AnalyticsCacheRepository) Get(ctx context.Context, userID uuid.UUID, generation int64, key string, dst any) (bool, error) {
	k := analyticsKey(userID, generation, key)

	val, err := r.client.Get(ctx, k).Bytes()
	if err == redis.Nil {
		logger.Log.Debugw("cache miss", "key", k)
		return false, nil
	}
	if err != nil {
		logger.Log.Errorw("cache read failed", "key", k, "error", err)
		return false, err
	}

	if err := json.Unmarshal(val, dst); err != nil {
		logger.Log.Errorw("cache decode failed", "key", k, "error", err)
		return false, err
	}

	logger.Log.Debugw("cache hit", "key", k)
	return true, nil
}

// Set stores a report under key and generation with the repository TTL.
func (r *AnalyticsCacheRepository) Set(ctx context.Context, userID uuid.UUID, generation int64, key string, value any) error {
	k := analyticsKey(userID, generation, key)

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, k, data, r.exp).Err()

	logger.Log.Debugw("cache set",
		"key", k,
		"ttl", r.exp,
		"error", err,
	)

	return err
}

// Invalidate bumps the owner's generation, then drops the reports filed so
// far. Reports still being computed land under the retired generation and
// are never read.
func (r *AnalyticsCacheRepository) Invalidate(ctx context.Context, userID uuid.UUID) error {
	gen, err := r.client.Incr(ctx, generationKey(userID)).Result()
	if err != nil {
		logger.Log.Errorw("cache invalidation failed", "userID", userID, "error", err)
		return err
	}

	pattern := fmt.Sprintf("analytics:%s:*", userID)

	var (
		cursor  uint64
		deleted int64
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			logger.Log.Errorw("cache invalidation failed", "pattern", pattern, "error", err)
			return err
		}
		if len(keys) > 0 {
			n, err := r.client.Del(ctx, keys...).Result()
			if err != nil {
				logger.Log.Errorw("cache invalidation failed", "pattern", pattern, "error", err)
				return err
			}
			deleted += n
		}
		if next == 0 {
			break
		}
		cursor = next
	}

	logger.Log.Debugw("cache invalidated", "pattern", pattern, "generation", gen, "deleted", deleted)
	return nil
}
