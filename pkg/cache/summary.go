package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/artem13815/growth/pkg/growth"
)

const (
	keyPrefix = "growth:summary:"
	// generation counters outlive any summary stored under them
	genTTL = 7 * 24 * time.Hour
)

// SummaryCache stores rendered growth summaries in Redis as JSON.
// A summary lives under growth:summary:<user>:<gen>; growth:summary:<user>:gen
// holds the current generation and is bumped by Invalidate.
type SummaryCache struct {
	rdb *goredis.Client
	ttl time.Duration
}

func NewSummaryCache(rdb *goredis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{rdb: rdb, ttl: ttl}
}

func genKey(userID uuid.UUID) string { return keyPrefix + userID.String() + ":gen" }

func dataKey(userID uuid.UUID, gen int64) string {
	return keyPrefix + userID.String() + ":" + strconv.FormatInt(gen, 10)
}

func (c *SummaryCache) Get(ctx context.Context, userID uuid.UUID) (growth.Summary, int64, bool, error) {
	gen, err := c.rdb.Get(ctx, genKey(userID)).Int64()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return growth.Summary{}, 0, false, fmt.Errorf("redis get generation: %w", err)
	}

	raw, err := c.rdb.Get(ctx, dataKey(userID, gen)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return growth.Summary{}, gen, false, nil
	}
	if err != nil {
		return growth.Summary{}, 0, false, fmt.Errorf("redis get: %w", err)
	}
	var s growth.Summary
	if err := json.Unmarshal(raw, &s); err != nil {
		// a stale shape is a miss, not an error
		return growth.Summary{}, gen, false, nil
	}
	return s, gen, true, nil
}

func (c *SummaryCache) Set(ctx context.Context, userID uuid.UUID, gen int64, s growth.Summary) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, dataKey(userID, gen), raw, c.ttl).Err()
}

func (c *SummaryCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	pipe := c.rdb.TxPipeline()
	pipe.Incr(ctx, genKey(userID))
	pipe.Expire(ctx, genKey(userID), genTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis bump generation: %w", err)
	}
	return nil
}
