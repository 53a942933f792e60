package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"slices"
	"sync"

	"albumsync/config"
	"albumsync/infras/otel"
	"albumsync/internal/domains/album/model"
	"albumsync/shared/cache"
	"albumsync/shared/constant"
	"albumsync/shared/failure"

	"github.com/rs/zerolog/log"
)

// Mirror is the locally persisted album list. Load never observes a half written Save.
type Mirror interface {
	Load(ctx context.Context) ([]model.MirrorEntry, error)
	Save(ctx context.Context, entries []model.MirrorEntry) error
	LoadImportState(ctx context.Context) (model.ImportState, error)
	SaveImportState(ctx context.Context, state model.ImportState) error
}

type repositoryImpl struct {
	cache cache.Cache
	cfg   *config.Config
	otel  otel.Otel
	mu    sync.RWMutex
}

func New(cache cache.Cache, cfg *config.Config, otel otel.Otel) Mirror {
	return &repositoryImpl{
		cache: cache,
		cfg:   cfg,
		otel:  otel,
	}
}

// Load returns the persisted album list. A missing key is an empty mirror; entries
// without an id are dropped. An unreadable blob is reported once and cleared.
func (r *repositoryImpl) Load(ctx context.Context) (entries []model.MirrorEntry, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".Load")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	var stored []model.MirrorEntry

	err = r.cache.Get(ctx, constant.StorageKeyAlbums, &stored)
	if errors.Is(err, cache.ErrMiss) {
		return []model.MirrorEntry{}, nil
	}

	if errors.Is(err, cache.ErrCorrupt) {
		log.Warn().Err(err).Msg("clearing unreadable album mirror")

		if delErr := r.cache.Delete(ctx, constant.StorageKeyAlbums); delErr != nil {
			log.Error().Err(delErr).Msg("failed to clear unreadable album mirror")
		}
	}

	if err != nil {
		return nil, failure.Persistence("load album mirror", err)
	}

	entries = slices.DeleteFunc(stored, func(e model.MirrorEntry) bool { return e.ID == "" })
	if dropped := len(stored) - len(entries); dropped > 0 {
		log.Warn().Int("dropped", dropped).Msg("discarded mirror entries without an id")
	}

	scope.SetAttribute(constant.OtelCountAttributeKey, len(entries))

	return entries, nil
}

func (r *repositoryImpl) Save(ctx context.Context, entries []model.MirrorEntry) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".Save")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelCountAttributeKey, len(entries))

	if entries == nil {
		entries = []model.MirrorEntry{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return failure.Persistence("save album mirror", r.cache.Save(ctx, constant.StorageKeyAlbums, entries, r.cfg.Cache.TTL))
}

func (r *repositoryImpl) LoadImportState(ctx context.Context) (state model.ImportState, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".LoadImportState")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	r.mu.RLock()
	defer r.mu.RUnlock()

	err = r.cache.Get(ctx, constant.StorageKeyImportState, &state)
	if errors.Is(err, cache.ErrMiss) {
		return model.ImportState{}, nil
	}

	if err != nil {
		return model.ImportState{}, failure.Persistence("load import state", err)
	}

	return state, nil
}

// SaveImportState persists the import marker without expiry so a completed import is
// never repeated.
func (r *repositoryImpl) SaveImportState(ctx context.Context, state model.ImportState) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".SaveImportState")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	return failure.Persistence("save import state", r.cache.Save(ctx, constant.StorageKeyImportState, state, 0))
}
