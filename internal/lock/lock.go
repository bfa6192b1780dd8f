package lock

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/fekuna/omnipos-stock-service/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrBusy means another holder owns the key.
var ErrBusy = errors.New("lock is held by another process")

// Locker hands out short leases that keep two workers from repeating the same
// expensive operation. Correctness still rests on database row locks.
type Locker interface {
	Obtain(ctx context.Context, key string) (release func(), err error)
}

type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	logger logger.ZapLogger
}

func NewRedisLocker(rdb *redis.Client, ttl time.Duration, log logger.ZapLogger) *RedisLocker {
	return &RedisLocker{client: redislock.New(rdb), ttl: ttl, logger: log}
}

func (l *RedisLocker) Obtain(ctx context.Context, key string) (func(), error) {
	lk, err := l.client.Obtain(ctx, "lock:"+key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrBusy
	}
	if err != nil {
		l.logger.Warn("redis lock unavailable; proceeding without it", zap.String("key", key), zap.Error(err))
		return func() {}, nil
	}

	return func() {
		if err := lk.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.logger.Warn("failed to release redis lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

// Noop grants every lock.
type Noop struct{}

func (Noop) Obtain(context.Context, string) (func(), error) { return func() {}, nil }
