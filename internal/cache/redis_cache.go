package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"retailmanager/internal/domain"
)

const dashboardKeyPrefix = "reports:dashboard:"

type RedisReportCache struct {
	client *redis.Client
}

func NewRedisReportCache(addr string, password string, db int) *RedisReportCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisReportCache{client: client}
}

func (c *RedisReportCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisReportCache) Close() error {
	return c.client.Close()
}

func (c *RedisReportCache) GetDashboard(ctx context.Context, owner string) (*domain.Dashboard, bool, error) {
	val, err := c.client.Get(ctx, dashboardKeyPrefix+owner).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var dashboard domain.Dashboard
	if err := json.Unmarshal([]byte(val), &dashboard); err != nil {
		return nil, false, err
	}
	return &dashboard, true, nil
}

func (c *RedisReportCache) SetDashboard(ctx context.Context, owner string, dashboard *domain.Dashboard, ttl time.Duration) error {
	if dashboard == nil {
		return nil
	}
	payload, err := json.Marshal(dashboard)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, dashboardKeyPrefix+owner, payload, ttl).Err()
}

func (c *RedisReportCache) Invalidate(ctx context.Context, owner string) error {
	return c.client.Del(ctx, dashboardKeyPrefix+owner).Err()
}
