package cache

import (
	"github.com/purchase-invoice/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewStore creates the store selected by cfg.Backend. When Redis is
// requested but no client is available it falls back to memory with a
// warning.
func NewStore(cfg config.CacheConfig, client *redis.Client, logger *zap.Logger) Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.Backend == BackendRedis {
		if client != nil {
			logger.Info("using Redis product cache")
			return NewRedisStore(client, WithRedisLogger(logger))
		}
		logger.Warn("Redis unavailable, falling back to in-memory product cache. " +
			"Instances will not share cached products.")
	}

	return NewMemoryStore(WithMemoryLogger(logger))
}
