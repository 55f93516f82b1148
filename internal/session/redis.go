package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wisetech/console/internal/config"
)

// RedisStorage keeps each session as a Redis hash with a sliding TTL.
type RedisStorage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStorage connects to Redis and verifies the connection.
func NewRedisStorage(cfg *config.RedisConfig, ttl time.Duration) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisStorage{client: client, ttl: ttl}, nil
}

func (r *RedisStorage) key(sid string) string {
	return "session:" + sid
}

func (r *RedisStorage) Get(ctx context.Context, sid, field string) (string, error) {
	v, err := r.client.HGet(ctx, r.key(sid), field).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (r *RedisStorage) GetAll(ctx context.Context, sid string) (map[string]string, error) {
	return r.client.HGetAll(ctx, r.key(sid)).Result()
}

func (r *RedisStorage) SetAll(ctx context.Context, sid string, fields map[string]string) error {
	// HSet applies the whole map in one command, so readers never see a
	// partial user record.
	values := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		values = append(values, k, v)
	}
	if err := r.client.HSet(ctx, r.key(sid), values...).Err(); err != nil {
		return err
	}
	if r.ttl > 0 {
		return r.client.Expire(ctx, r.key(sid), r.ttl).Err()
	}
	return nil
}

func (r *RedisStorage) Delete(ctx context.Context, sid string, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	return r.client.HDel(ctx, r.key(sid), fields...).Err()
}

// Close closes the Redis connection.
func (r *RedisStorage) Close() error {
	return r.client.Close()
}
