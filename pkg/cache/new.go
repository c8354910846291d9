package cache

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/styletower/pkg/config"
	"github.com/matzehuels/styletower/pkg/errors"
)

// New opens the backend cfg selects.
func New(ctx context.Context, cfg config.Cache, logger *log.Logger) (Cache, error) {
	switch cfg.Backend {
	case config.BackendNull:
		return NewNullCache(), nil
	case "", config.BackendMemory:
		return NewMemoryCache(), nil
	case config.BackendFile:
		if cfg.Dir == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "cache.dir is required for the file backend")
		}
		c, err := NewFileCache(cfg.Dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open cache dir %s", cfg.Dir)
		}
		return c, nil
	case config.BackendRedis:
		c, err := NewRedisCache(ctx, cfg.RedisAddr, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.BackendMongo:
		c, err := NewMongoCache(ctx, cfg.MongoURI, cfg.MongoDB, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", cfg.Backend)
	}
}

// NewKeyer returns the keyer for cfg, scoped by its namespace if set.
func NewKeyer(cfg config.Cache) Keyer {
	if cfg.Namespace == "" {
		return NewDefaultKeyer()
	}
	return NewScopedKeyer(NewDefaultKeyer(), cfg.Namespace+":")
}
