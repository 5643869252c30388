package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores computed results in redis. Each coach has a version counter
// that is part of every entry key, so invalidating a coach is a single INCR
// and stale entries simply age out.
type Cache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewCache(rdb redis.Cmdable, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

func versionKey(coachID int) string {
	return fmt.Sprintf("availability:coach:%d:version", coachID)
}

func entryKey(coachID int, version int64, date string) string {
	return fmt.Sprintf("availability:coach:%d:v%d:%s", coachID, version, date)
}

// Lookup returns the cached result for the coach and date, if any, along with
// the version the caller must pass to Store.
func (c *Cache) Lookup(ctx context.Context, coachID int, date string) (*Result, int64, error) {
	version, err := c.rdb.Get(ctx, versionKey(coachID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, err
	}

	data, err := c.rdb.Get(ctx, entryKey(coachID, version, date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, version, nil
	}
	if err != nil {
		return nil, version, err
	}

	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, version, fmt.Errorf("decode cached availability: %w", err)
	}
	return &res, version, nil
}

func (c *Cache) Store(ctx context.Context, coachID int, version int64, res *Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, entryKey(coachID, version, res.Date), data, c.ttl).Err()
}

// InvalidateCoach bumps the coach's version so earlier entries are never read
// again.
func (c *Cache) InvalidateCoach(ctx context.Context, coachID int) error {
	return c.rdb.Incr(ctx, versionKey(coachID)).Err()
}
