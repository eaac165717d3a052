package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gift-service/internal/dto"
	"gift-service/pkg/config"

	"github.com/redis/go-redis/v9"
)

// NewClient connects to Redis and verifies the connection
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// RedisOrderCache keeps rendered orders keyed by member and order id
type RedisOrderCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisOrderCache(client redis.Cmdable, ttl time.Duration) *RedisOrderCache {
	return &RedisOrderCache{client: client, ttl: ttl}
}

func (c *RedisOrderCache) Get(ctx context.Context, memberID, orderID uint) (*dto.OrderResult, error) {
	data, err := c.client.Get(ctx, orderKey(memberID, orderID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached order: %w", err)
	}

	var order dto.OrderResult
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("failed to decode cached order: %w", err)
	}
	return &order, nil
}

func (c *RedisOrderCache) Set(ctx context.Context, memberID uint, order *dto.OrderResult) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to encode order: %w", err)
	}
	if err := c.client.Set(ctx, orderKey(memberID, order.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache order: %w", err)
	}
	return nil
}

func (c *RedisOrderCache) Delete(ctx context.Context, memberID, orderID uint) error {
	if err := c.client.Del(ctx, orderKey(memberID, orderID)).Err(); err != nil {
		return fmt.Errorf("failed to evict order: %w", err)
	}
	return nil
}
