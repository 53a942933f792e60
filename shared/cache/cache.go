package cache

//go:generate go run go.uber.org/mock/mockgen -source=./cache.go -destination=./mocks/cache_mock.go -package=mocks

import (
	"context"
	"errors"

	"albumsync/config"
	"albumsync/infras/otel"
	"albumsync/infras/redis"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	otelCacheKeyAttribute = "cache.key"
)

var (
	// ErrMiss is returned by Get when the key holds no value.
	ErrMiss = errors.New("cache: key not found")
	// ErrCorrupt is returned by Get when the stored value cannot be decoded.
	ErrCorrupt = errors.New("cache: stored value is unreadable")
)

// Cache is a JSON key-value store. A duration of zero keeps the value forever.
type Cache interface {
	Save(ctx context.Context, key string, value any, duration int) (err error)
	Get(ctx context.Context, key string, value any) (err error)
	Delete(ctx context.Context, key string) error
}

// New selects the backend configured by MIRROR_BACKEND.
func New(cfg *config.Config, ot otel.Otel) Cache {
	switch cfg.Mirror.Backend {
	case config.MirrorBackendRedis:
		log.Info().Str("backend", cfg.Mirror.Backend).Msg("using redis mirror backend")

		return NewRedisCache(redis.New(cfg), ot)
	default:
		log.Info().
			Str("backend", config.MirrorBackendFile).
			Str("path", cfg.Mirror.FilePath).
			Msg("using file mirror backend")

		return NewFileCache(afero.NewOsFs(), cfg.Mirror.FilePath, cfg.Mirror.LockPath, ot)
	}
}
