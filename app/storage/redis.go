package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type Redis struct {
	Client *redis.Client
}

// NewRedis connects to redisURL and verifies the server responds.
func NewRedis(ctx context.Context, redisURL string) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := &Redis{
		Client: redis.NewClient(opt),
	}

	err = client.Ping(ctx)
	if err != nil {
		_ = client.Client.Close()
		return nil, fmt.Errorf("redis server is not alive: %w", err)
	}

	return client, nil
}

func (c *Redis) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *Redis) Close() error {
	return c.Client.Close()
}

func (c *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	} else if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (c *Redis) Set(ctx context.Context, key, value string) error {
	return c.Client.Set(ctx, key, value, 0).Err()
}

func (c *Redis) AddToSet(ctx context.Context, key, member string) error {
	return c.Client.SAdd(ctx, key, member).Err()
}

func (c *Redis) RemoveFromSet(ctx context.Context, key, member string) (bool, error) {
	n, err := c.Client.SRem(ctx, key, member).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *Redis) IsMember(ctx context.Context, key, member string) (bool, error) {
	return c.Client.SIsMember(ctx, key, member).Result()
}
