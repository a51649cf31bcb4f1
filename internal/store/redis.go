package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "storefront:"

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func (r RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

func (r RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, redisKey(key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, redisKey(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func redisKey(key string) string {
	return keyPrefix + key
}
