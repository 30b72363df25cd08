package cache

import (
	"context"

	"gitlab.com/nextmod/nextmod/internal/config"
	"gitlab.com/nextmod/nextmod/internal/foundation/errors"
)

// Open builds the cache selected by cfg.
func Open(ctx context.Context, cfg config.CacheConfig) (Cache, error) {
	switch cfg.Type {
	case "", config.CacheNone:
		return NullCache{}, nil
	case config.CacheFile:
		dir := cfg.Directory
		if dir == "" {
			dir = ".nextmod-cache"
		}
		c, err := NewFileCache(dir)
		if err != nil {
			return nil, errors.FileSystemError("failed to create cache directory").
				WithCause(err).
				WithContext("path", dir).
				Fatal().
				Build()
		}
		return c, nil
	case config.CacheRedis:
		c, err := NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, errors.ConfigError("failed to connect to redis cache").
				WithCause(err).
				Build()
		}
		return c, nil
	default:
		return nil, errors.ConfigError("unknown cache type").
			WithContext("type", string(cfg.Type)).
			Build()
	}
}
