package checkers

import (
	"context"

	goredis "github.com/redis/go-redis/v9"
)

// RedisChecker pings the summary cache backend.
type RedisChecker struct {
	rdb *goredis.Client
}

func NewRedisChecker(rdb *goredis.Client) *RedisChecker {
	return &RedisChecker{rdb: rdb}
}

func (c *RedisChecker) Name() string { return "redis" }

func (c *RedisChecker) Check(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
