package lock

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"go.uber.org/zap"
)

const (
	defaultKeyPrefix     = "invoice:owner-lock:"
	defaultRetryInterval = 50 * time.Millisecond
)

// RedisLocker serializes owners across processes using Redis locks.
// The TTL bounds how long a crashed holder can block an owner.
type RedisLocker struct {
	client    *redislock.Client
	ttl       time.Duration
	retry     time.Duration
	keyPrefix string
	logger    *zap.Logger
}

// RedisLockerOption configures a RedisLocker
type RedisLockerOption func(*RedisLocker)

// WithRetryInterval sets the pause between acquisition attempts
func WithRetryInterval(d time.Duration) RedisLockerOption {
	return func(l *RedisLocker) {
		l.retry = d
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) RedisLockerOption {
	return func(l *RedisLocker) {
		l.logger = logger
	}
}

// NewRedisLocker creates a locker on top of an existing Redis client.
// The caller retains ownership of the client.
func NewRedisLocker(client redislock.RedisClient, ttl time.Duration, opts ...RedisLockerOption) *RedisLocker {
	l := &RedisLocker{
		client:    redislock.New(client),
		ttl:       ttl,
		retry:     defaultRetryInterval,
		keyPrefix: defaultKeyPrefix,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Lock retries until the key is obtained or ctx is done. Without a ctx
// deadline the TTL bounds the wait.
func (l *RedisLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	lk, err := l.client.Obtain(ctx, l.keyPrefix+key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(l.retry),
	})
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, ErrNotObtained
		}
		return nil, err
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		// the request context may already be cancelled
		if err := lk.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.logger.Warn("Failed to release owner lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}
