package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"albumsync/config"
	"albumsync/infras/device"
	"albumsync/infras/otel"
	"albumsync/internal/domains/album/model"
	"albumsync/internal/domains/album/model/dto"
	"albumsync/internal/domains/album/repository"
	previewService "albumsync/internal/domains/preview/service"
	"albumsync/shared/constant"
	"albumsync/shared/failure"
	"albumsync/shared/timezone"
	"albumsync/shared/validator"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const refreshKey = "albums"

// Album keeps the on-device albums and their persisted mirror consistent. Mutating
// operations run one at a time; reads may run alongside them.
type Album interface {
	Load(ctx context.Context) model.Snapshot
	RefreshAlbums(ctx context.Context) ([]dto.AlbumResponse, error)
	CreateAlbumFromSelection(ctx context.Context, req dto.CreateAlbumRequest) (dto.CreateAlbumResponse, error)
	PickAndCreateAlbum(ctx context.Context, req dto.PickAlbumRequest) (dto.CreateAlbumResponse, error)
	BeginCreation() (model.Flow, error)
	CancelCreation(flowID string) error
	SubmitCreation(ctx context.Context, flowID string, req dto.CreateAlbumRequest) (dto.CreateAlbumResponse, error)
	DeleteAlbum(ctx context.Context, albumID string) error
	DeletePhoto(ctx context.Context, assetID string) error
	BulkImportDeviceLibrary(ctx context.Context) (dto.ImportResponse, error)
	LoadPhotos(ctx context.Context, albumID string) (dto.PhotosResponse, error)
	Albums() []dto.AlbumResponse
	Photos() []model.Photo
	Snapshot() model.Snapshot
	Subscribe() (<-chan model.Snapshot, func())
}

type serviceImpl struct {
	gateway device.Gateway
	perm    device.Permission
	preview previewService.Preview
	mirror  repository.Mirror
	cfg     *config.Config
	otel    otel.Otel

	// writeMu queues mutating flows so probe-then-create never interleaves.
	writeMu   sync.Mutex
	persistMu sync.Mutex
	refresh   singleflight.Group

	mu          sync.RWMutex
	albums      []model.MirrorEntry
	tombstones  map[string]struct{}
	mirrorGen   uint64
	generation  uint64
	photos      []model.Photo
	viewAlbumID string
	viewLoaded  bool
	pending     *model.Flow
	active      *model.Flow
	last        model.Flow
	imported    model.ImportState
	importRead  bool
	persistErr  string
	subscribers map[int]chan model.Snapshot
	nextSub     int

	// pendingSubmitted marks the pending flow as queued behind writeMu.
	pendingSubmitted bool
}

func New(
	gateway device.Gateway,
	perm device.Permission,
	preview previewService.Preview,
	mirror repository.Mirror,
	cfg *config.Config,
	otel otel.Otel,
) Album {
	return &serviceImpl{
		gateway:     gateway,
		perm:        perm,
		preview:     preview,
		mirror:      mirror,
		cfg:         cfg,
		otel:        otel,
		albums:      []model.MirrorEntry{},
		tombstones:  make(map[string]struct{}),
		last:        model.Flow{State: model.FlowIdle},
		subscribers: make(map[int]chan model.Snapshot),
	}
}

// Load restores the persisted mirror and import marker. Unreadable persistence leaves
// the in-memory state as it was.
func (s *serviceImpl) Load(ctx context.Context) model.Snapshot {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Load")
	defer scope.End()

	entries, err := s.mirror.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load album mirror, continuing with the in-memory list")
		s.recordPersistence(err)
	} else {
		s.update(func() {
			s.albums = s.live(entries)
		})
	}

	state, err := s.mirror.LoadImportState(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load import state")
		s.recordPersistence(err)
	} else {
		s.update(func() {
			s.imported = state
			s.importRead = true
		})
	}

	scope.SetAttribute(constant.OtelCountAttributeKey, len(s.Albums()))

	return s.Snapshot()
}

// RefreshAlbums relists the device albums and replaces the mirror with the result.
// Concurrent calls share one pass. A pass that overlapped an album mutation is thrown
// away and read again.
func (s *serviceImpl) RefreshAlbums(ctx context.Context) (res []dto.AlbumResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshAlbums")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !s.perm.Granted() {
		return s.Albums(), failure.ErrNoPermission
	}

	_, err, shared := s.refresh.Do(refreshKey, func() (any, error) {
		return nil, s.refreshAlbums(ctx, scope)
	})
	if shared {
		log.Debug().Msg("joined an album refresh already in flight")
	}

	return s.Albums(), err
}

func (s *serviceImpl) refreshAlbums(ctx context.Context, scope otel.Scope) error {
	attempts := max(s.cfg.Gallery.RefreshAttempts, 1)

	for attempt := 1; attempt <= attempts; attempt++ {
		s.mu.RLock()
		gen := s.mirrorGen
		s.mu.RUnlock()

		entries, err := s.fetchAlbums(ctx)
		if err != nil {
			log.Error().Err(err).Msg("failed to list device albums, keeping the previous mirror")

			return err
		}

		committed := false

		s.update(func() {
			if s.mirrorGen != gen {
				return
			}

			s.albums = s.live(entries)
			s.mirrorGen++
			committed = true
		})

		if committed {
			s.persist(ctx)

			return nil
		}

		log.Debug().Int("attempt", attempt).Msg("albums changed during refresh, reading again")
		scope.AddEvent(constant.OtelRefreshRetriedEvent, map[string]any{"attempt": attempt})
	}

	return failure.Conflict(fmt.Sprintf("albums kept changing during refresh after %d attempts", attempts))
}

// fetchAlbums lists the device albums and resolves every preview. Failed previews are
// already the placeholder, so the snapshot is always complete.
func (s *serviceImpl) fetchAlbums(ctx context.Context) ([]model.MirrorEntry, error) {
	albums, err := s.gateway.ListAlbums(ctx)
	if err != nil {
		return nil, failure.Gateway(failure.ReasonIOFailure, "list albums", err)
	}

	entries := make([]model.MirrorEntry, len(albums))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.cfg.Gallery.PreviewConcurrency, 1))

	for i, album := range albums {
		g.Go(func() error {
			ref, err := s.preview.Resolve(gctx, album.ID)
			if err != nil {
				log.Warn().Err(err).Str("album", album.ID).Msg("using placeholder preview")
			}

			entries[i] = model.MirrorEntry{ID: album.ID, Title: album.Title, PreviewReference: &ref}

			return nil
		})
	}

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, failure.Gateway(failure.ReasonIOFailure, "refresh albums", err)
	}

	return entries, nil
}

func (s *serviceImpl) CreateAlbumFromSelection(ctx context.Context, req dto.CreateAlbumRequest) (res dto.CreateAlbumResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateAlbumFromSelection")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	flow := newFlow(req.Title)

	return s.submit(ctx, scope, flow, req)
}

// PickAndCreateAlbum asks the device picker for photos and files them under title.
func (s *serviceImpl) PickAndCreateAlbum(ctx context.Context, req dto.PickAlbumRequest) (res dto.CreateAlbumResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".PickAndCreateAlbum")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	if !s.perm.Granted() {
		return res, failure.ErrNoPermission
	}

	handles, err := s.gateway.ImportFromExternalSource(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to pick photos")

		return res, failure.Gateway(failure.ReasonIOFailure, "pick photos", err)
	}

	if len(handles) == 0 {
		return res, failure.BadRequestFromString("no photos were picked")
	}

	return s.CreateAlbumFromSelection(ctx, dto.CreateAlbumRequest{Title: req.Title, Handles: handles})
}

// create registers the picked handles and files them under the title, reusing an album
// that already carries it. The caller holds writeMu.
func (s *serviceImpl) create(ctx context.Context, flow *model.Flow, req dto.CreateAlbumRequest) (res dto.CreateAlbumResponse, err error) {
	res.Requested = len(req.Handles)

	if !s.perm.Granted() {
		return res, failure.ErrNoPermission
	}

	var assetIDs []string

	for _, handle := range req.Handles {
		asset, err := s.gateway.RegisterAsset(ctx, handle)
		if err != nil {
			log.Warn().Err(err).Str("uri", handle.URI).Msg("failed to register picked photo")

			res.Failures = append(res.Failures, dto.HandleFailure{URI: handle.URI, Reason: err.Error()})

			continue
		}

		res.Added++

		if !slices.Contains(assetIDs, asset.ID) {
			assetIDs = append(assetIDs, asset.ID)
		}
	}

	if len(assetIDs) == 0 {
		return res, failure.Gateway(failure.ReasonIOFailure, "none of the selected photos could be registered", nil)
	}

	album, reused, err := s.probeOrCreate(ctx, req.Title, assetIDs)
	if album.ID != "" {
		res.Reused = reused

		entry := s.resolveEntry(ctx, album)
		res.Album.FromEntry(entry)

		if !s.mergeEntry(ctx, entry, flow) {
			log.Info().Str("flow", flow.ID).Msg("album creation cancelled, mirror left unchanged")
		}
	}

	if err != nil {
		res.Added = 0
		if album.ID != "" && !reused {
			res.Added = 1
		}

		return res, err
	}

	if res.Added < res.Requested {
		return res, failure.Partial(fmt.Sprintf("album %q saved without every selected photo", req.Title), res.Added, res.Requested)
	}

	return res, nil
}

// probeOrCreate files assetIDs under the album titled title. When the album had to be
// created and the follow-up add fails, the new album is still returned with the error.
func (s *serviceImpl) probeOrCreate(ctx context.Context, title string, assetIDs []string) (device.Album, bool, error) {
	existing, err := s.gateway.FindAlbumByTitle(ctx, title)
	if err != nil {
		return device.Album{}, false, failure.Gateway(failure.ReasonIOFailure, "look up album by title", err)
	}

	if existing != nil {
		if err := s.gateway.AddAssetsToAlbum(ctx, assetIDs, existing.ID); err != nil {
			return device.Album{}, true, failure.Gateway(failure.ReasonIOFailure, "add photos to album", err)
		}

		return *existing, true, nil
	}

	album, err := s.gateway.CreateAlbum(ctx, title, assetIDs[0])
	if err != nil {
		return device.Album{}, false, failure.Gateway(failure.ReasonIOFailure, "create album", err)
	}

	log.Info().Str("album", album.ID).Str("title", title).Msg("album created")

	if len(assetIDs) > 1 {
		if err := s.gateway.AddAssetsToAlbum(ctx, assetIDs[1:], album.ID); err != nil {
			return album, false, failure.Gateway(failure.ReasonIOFailure, "add photos to album", err)
		}
	}

	return album, false, nil
}

// DeleteAlbum removes the album and the photos it contains. The mirror entry is dropped
// immediately; an album the device no longer knows counts as deleted.
func (s *serviceImpl) DeleteAlbum(ctx context.Context, albumID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteAlbum")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelAlbumIDAttributeKey, albumID)

	if err = validator.ValidateVar(albumID, "required,notblank"); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if !s.perm.Granted() {
		return failure.ErrNoPermission
	}

	err = s.gateway.DeleteAlbum(ctx, albumID, true)
	if failure.IsNotFound(err) {
		log.Info().Str("album", albumID).Msg("album already gone from the device")

		err = nil
	}

	if err != nil {
		log.Error().Err(err).Str("album", albumID).Msg("failed to delete album")

		return failure.Gateway(failure.ReasonIOFailure, "delete album", err)
	}

	s.update(func() {
		s.tombstones[albumID] = struct{}{}
		s.albums = slices.DeleteFunc(s.albums, func(e model.MirrorEntry) bool { return e.ID == albumID })
		s.mirrorGen++

		if s.viewLoaded && s.viewAlbumID == albumID {
			s.photos = []model.Photo{}
			s.viewAlbumID = ""
			s.viewLoaded = false
		}
	})

	s.persist(ctx)

	return nil
}

// DeletePhoto removes the photo from the device and from every album showing it.
func (s *serviceImpl) DeletePhoto(ctx context.Context, assetID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeletePhoto")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateVar(assetID, "required,notblank"); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if !s.perm.Granted() {
		return failure.ErrNoPermission
	}

	err = s.gateway.DeleteAssets(ctx, []string{assetID})
	if failure.IsNotFound(err) {
		log.Info().Str("asset", assetID).Msg("photo already gone from the device")

		err = nil
	}

	if err != nil {
		log.Error().Err(err).Str("asset", assetID).Msg("failed to delete photo")

		return failure.Gateway(failure.ReasonIOFailure, "delete photo", err)
	}

	var (
		reload bool
		viewID string
	)

	s.update(func() {
		s.photos = slices.DeleteFunc(s.photos, func(p model.Photo) bool { return p.ID == assetID })
		reload, viewID = s.viewLoaded, s.viewAlbumID
		// previews read before the delete may still point at the photo
		s.mirrorGen++
	})

	if reload {
		if _, err := s.loadPhotos(ctx, viewID); err != nil && !failure.IsPartial(err) {
			log.Warn().Err(err).Str("album", viewID).Msg("failed to reload the displayed album")
		}
	}

	s.refresh.Forget(refreshKey)

	if _, err := s.RefreshAlbums(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to refresh albums after deleting a photo")
	}

	return nil
}

// BulkImportDeviceLibrary files every device photo under the default collection once.
// A truncated listing is imported as far as it goes and reported as partial; later starts
// report the recorded shortfall instead of importing again.
func (s *serviceImpl) BulkImportDeviceLibrary(ctx context.Context) (res dto.ImportResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".BulkImportDeviceLibrary")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if state := s.importState(ctx); state.Completed {
		res.AlreadyImported = true
		res.Fetched = state.Imported
		res.Total = max(state.Total, state.Imported)

		if state.Partial() {
			log.Warn().Int("imported", res.Fetched).Int("total", res.Total).Msg("device library was imported from an incomplete listing")
		} else {
			log.Debug().Msg("device library already imported")
		}

		return res, nil
	}

	granted, err := s.perm.Request(ctx)
	if err != nil {
		return res, failure.PermissionDenied(fmt.Sprintf("media library permission request failed: %v", err))
	}

	if !granted {
		log.Warn().Msg("media library permission denied, skipping import")

		return res, failure.ErrNoPermission
	}

	page, err := s.gateway.ListAssets(ctx, device.AssetQuery{
		Kinds:  []device.MediaKind{device.KindPhoto},
		SortBy: device.SortCreationTime,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to list device photos")

		return res, failure.Gateway(failure.ReasonIOFailure, "list device photos", err)
	}

	res.Fetched = len(page.Assets)
	res.Total = max(page.TotalCount, res.Fetched)

	scope.SetAttributes(map[string]any{
		constant.OtelFetchedAttributeKey: res.Fetched,
		constant.OtelTotalAttributeKey:   res.Total,
	})

	if res.Fetched == 0 {
		if res.Total > 0 {
			return res, failure.Partial("device photos imported", 0, res.Total)
		}

		log.Info().Msg("no device photos to import")

		return res, nil
	}

	if res.Partial() {
		log.Warn().Int("fetched", res.Fetched).Int("total", res.Total).Msg("device listing is incomplete, importing what was returned")
	}

	assetIDs := make([]string, len(page.Assets))
	for i, asset := range page.Assets {
		assetIDs[i] = asset.ID
	}

	album, _, err := s.probeOrCreate(ctx, s.cfg.Gallery.DefaultCollection, assetIDs)
	if album.ID != "" {
		res.CollectionID = album.ID
		s.mergeEntry(ctx, s.resolveEntry(ctx, album), nil)
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to fill the default collection")

		return res, err
	}

	state := model.ImportState{Completed: true, CompletedAt: timezone.Now(), Imported: res.Fetched, Total: res.Total}

	s.update(func() {
		s.imported = state
	})

	if err := s.mirror.SaveImportState(ctx, state); err != nil {
		log.Error().Err(err).Msg("failed to persist import state")
		s.recordPersistence(err)
	}

	log.Info().Int("imported", res.Fetched).Int("total", res.Total).Str("collection", album.ID).Msg("device library imported")

	if res.Partial() {
		return res, failure.Partial("device photos imported", res.Fetched, res.Total)
	}

	return res, nil
}

func (s *serviceImpl) importState(ctx context.Context) model.ImportState {
	s.mu.RLock()
	state, read := s.imported, s.importRead
	s.mu.RUnlock()

	if read || state.Completed {
		return state
	}

	stored, err := s.mirror.LoadImportState(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load import state")
		s.recordPersistence(err)

		return state
	}

	s.update(func() {
		s.imported = stored
		s.importRead = true
	})

	return stored
}

// LoadPhotos lists the photos of an album, oldest first, and makes it the displayed
// view. An empty id selects the default collection.
func (s *serviceImpl) LoadPhotos(ctx context.Context, albumID string) (res dto.PhotosResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".LoadPhotos")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelAlbumIDAttributeKey, albumID)

	return s.loadPhotos(ctx, albumID)
}

func (s *serviceImpl) loadPhotos(ctx context.Context, albumID string) (res dto.PhotosResponse, err error) {
	res.Photos = []model.Photo{}

	if !s.perm.Granted() {
		return res, failure.ErrNoPermission
	}

	if albumID == "" {
		collection, err := s.gateway.FindAlbumByTitle(ctx, s.cfg.Gallery.DefaultCollection)
		if err != nil {
			log.Error().Err(err).Msg("failed to look up the default collection")

			return res, failure.Gateway(failure.ReasonIOFailure, "look up default collection", err)
		}

		if collection == nil {
			s.setView("", nil)

			return res, nil
		}

		albumID = collection.ID
	}

	page, err := s.gateway.ListAssets(ctx, device.AssetQuery{
		AlbumID: albumID,
		Kinds:   []device.MediaKind{device.KindPhoto},
		SortBy:  device.SortCreationTime,
	})
	if err != nil {
		log.Error().Err(err).Str("album", albumID).Msg("failed to list album photos")

		return res, failure.Gateway(failure.ReasonIOFailure, "list album photos", err)
	}

	res.FromPage(albumID, page)
	s.setView(albumID, res.Photos)

	if !page.Complete() {
		log.Warn().Int("fetched", len(page.Assets)).Int("total", page.TotalCount).Str("album", albumID).Msg("album listing is incomplete")

		return res, failure.Partial("album photos listed", len(page.Assets), page.TotalCount)
	}

	return res, nil
}

func (s *serviceImpl) setView(albumID string, photos []model.Photo) {
	s.update(func() {
		s.viewAlbumID = albumID
		s.viewLoaded = true
		s.photos = slices.Clone(photos)

		if s.photos == nil {
			s.photos = []model.Photo{}
		}
	})
}

func (s *serviceImpl) resolveEntry(ctx context.Context, album device.Album) model.MirrorEntry {
	ref, err := s.preview.Resolve(ctx, album.ID)
	if err != nil {
		log.Warn().Err(err).Str("album", album.ID).Msg("using placeholder preview")
	}

	return model.MirrorEntry{ID: album.ID, Title: album.Title, PreviewReference: &ref}
}

// mergeEntry inserts or replaces one album in the mirror without relisting the device.
// Nothing is merged once the owning flow has been cancelled.
func (s *serviceImpl) mergeEntry(ctx context.Context, entry model.MirrorEntry, flow *model.Flow) bool {
	merged := false

	s.update(func() {
		if flow != nil && flow.Cancelled {
			return
		}

		delete(s.tombstones, entry.ID)

		albums := slices.DeleteFunc(slices.Clone(s.albums), func(e model.MirrorEntry) bool { return e.ID == entry.ID })
		s.albums = s.live(append(albums, entry))
		s.mirrorGen++
		merged = true
	})

	if merged {
		s.persist(ctx)
	}

	return merged
}

// live drops deleted albums and orders the rest by title, then id.
func (s *serviceImpl) live(entries []model.MirrorEntry) []model.MirrorEntry {
	out := make([]model.MirrorEntry, 0, len(entries))

	for _, entry := range entries {
		if _, gone := s.tombstones[entry.ID]; gone || entry.ID == "" {
			continue
		}

		out = append(out, entry)
	}

	slices.SortFunc(out, func(a, b model.MirrorEntry) int {
		return cmp.Or(cmp.Compare(a.Title, b.Title), cmp.Compare(a.ID, b.ID))
	})

	return out
}

// persist writes the current album list. Saves are serialized, so the last write always
// carries the newest list.
func (s *serviceImpl) persist(ctx context.Context) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.RLock()
	entries := slices.Clone(s.albums)
	s.mu.RUnlock()

	if err := s.mirror.Save(context.WithoutCancel(ctx), entries); err != nil {
		log.Error().Err(err).Int("albums", len(entries)).Msg("failed to persist album mirror")
		s.recordPersistence(err)

		return
	}

	s.recordPersistence(nil)
}

func (s *serviceImpl) recordPersistence(err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}

	s.mu.RLock()
	unchanged := s.persistErr == msg
	s.mu.RUnlock()

	if unchanged {
		return
	}

	s.update(func() {
		s.persistErr = msg
	})
}
