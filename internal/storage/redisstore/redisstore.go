package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gonovel/internal/storage"
)

// RedisStore keeps every key as a plain Redis string under Prefix. Values never expire.
type RedisStore struct {
	client *redis.Client
	Prefix string
}

// New parses a redis:// URL, connects and verifies the connection.
func New(ctx context.Context, redisURL, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewWithClient(rdb, prefix), nil
}

func NewWithClient(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		Prefix: prefix,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.Prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", storage.ErrNotExist
	}
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("redis get failed")
		return "", storage.ErrInternal
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.Prefix+key, value, 0).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("redis set failed")
		return storage.ErrInternal
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.Prefix+key).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("redis del failed")
		return storage.ErrInternal
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
