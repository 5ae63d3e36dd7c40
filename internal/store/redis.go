package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the Redis slot backend.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// RedisSlots keeps each slot as a single string key. SET replaces the value
// atomically.
type RedisSlots struct {
	client *redis.Client
	prefix string
}

var _ SlotBackend = (*RedisSlots)(nil)

// NewRedisSlots connects to Redis and verifies the connection.
func NewRedisSlots(ctx context.Context, cfg RedisConfig) (*RedisSlots, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisSlotsFromClient(rdb, cfg.Prefix), nil
}

// NewRedisSlotsFromClient wraps an existing client.
func NewRedisSlotsFromClient(client *redis.Client, prefix string) *RedisSlots {
	if prefix == "" {
		prefix = "strokerisk"
	}
	return &RedisSlots{client: client, prefix: prefix}
}

func (r *RedisSlots) key(slot string) string {
	return r.prefix + ":" + slot
}

func (r *RedisSlots) Read(ctx context.Context, slot string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(slot)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %q: %w", slot, err)
	}
	return data, nil
}

func (r *RedisSlots) Write(ctx context.Context, slot string, data []byte) error {
	if err := r.client.Set(ctx, r.key(slot), data, 0).Err(); err != nil {
		return fmt.Errorf("write slot %q: %w", slot, err)
	}
	return nil
}

func (r *RedisSlots) Delete(ctx context.Context, slot string) error {
	if err := r.client.Del(ctx, r.key(slot)).Err(); err != nil {
		return fmt.Errorf("delete slot %q: %w", slot, err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *RedisSlots) Close() error {
	return r.client.Close()
}
