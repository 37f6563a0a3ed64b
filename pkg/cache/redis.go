package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend-template/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrCacheMiss = errors.New("cache miss")

// Store caches rendered responses.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) (int, error)
}

// ResponseKeyPrefix is the prefix of every cached response stored for prefix.
func ResponseKeyPrefix(prefix string) string {
	return fmt.Sprintf("cache:%s:", prefix)
}

// NewRedisClient connects and pings Redis.
func NewRedisClient(cfg utils.RedisConfig, log *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Error("Failed to connect to Redis", zap.String("address", cfg.Addr), zap.Error(err))
		rdb.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Addr, err)
	}

	log.Info("Connected to Redis", zap.String("address", cfg.Addr))
	return rdb, nil
}

type redisStore struct {
	client redis.UniversalClient
	log    *zap.Logger
}

func NewRedisStore(client redis.UniversalClient, log *zap.Logger) Store {
	return &redisStore{
		client: client,
		log:    log.With(zap.String("cache", "redis")),
	}
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	return val, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	s.log.Debug("Cached value", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

// DeleteByPrefix removes every key starting with prefix and returns how many
// were deleted.
func (s *redisStore) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	var (
		cursor  uint64
		deleted int
	)

	for {
		keys, next, err := s.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("cache scan %s: %w", prefix, err)
		}

		if len(keys) > 0 {
			n, err := s.client.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("cache delete %s: %w", prefix, err)
			}
			deleted += int(n)
		}

		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}
