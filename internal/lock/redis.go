package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/contestify/contest-api/internal/config"
)

// releaseScript deletes the key only if it still holds our token, so an
// expired lock taken over by someone else is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

type RedisLocker struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisClient(ctx context.Context, conf *config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("rdb.Ping -> %w", err)
	}

	return rdb, nil
}

func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		rdb:    rdb,
		ttl:    ttl,
		prefix: "contestify:lock:",
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (Release, error) {
	fullKey := l.prefix + key
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, fullKey, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("l.rdb.SetNX -> %w", err)
	}
	if !ok {
		return nil, ErrNotAcquired
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// The request context may already be cancelled here.
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			if err := releaseScript.Run(releaseCtx, l.rdb, []string{fullKey}, token).Err(); err != nil {
				zap.L().Warn("failed to release lock", zap.String("key", fullKey), zap.Error(err))
			}
		})
	}, nil
}
