package device

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"albumsync/shared/failure"

	"github.com/google/uuid"
)

type memoryAlbum struct {
	id      string
	title   string
	members []string
}

// Memory is an in-process device store. Titles are not unique: CreateAlbum always
// creates, like the platform stores it stands in for.
type Memory struct {
	mu       sync.RWMutex
	albums   []*memoryAlbum
	assets   map[string]Asset
	byURI    map[string]string
	pageSize int
	picker   func(ctx context.Context) ([]PickedHandle, error)
	now      func() time.Time
}

// NewMemory builds an empty store. A positive pageSize truncates every listing.
func NewMemory(pageSize int) *Memory {
	return &Memory{
		assets:   make(map[string]Asset),
		byURI:    make(map[string]string),
		pageSize: pageSize,
		now:      time.Now,
	}
}

// SetPicker installs the source used by ImportFromExternalSource.
func (m *Memory) SetPicker(picker func(ctx context.Context) ([]PickedHandle, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.picker = picker
}

// SetPageSize changes listing truncation.
func (m *Memory) SetPageSize(pageSize int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pageSize = pageSize
}

// AddAsset places media in the library the way the camera would.
func (m *Memory) AddAsset(uri string, kind MediaKind, createdAt time.Time) Asset {
	m.mu.Lock()
	defer m.mu.Unlock()

	asset := Asset{ID: uuid.NewString(), URI: uri, Kind: kind, CreatedAt: createdAt}
	m.assets[asset.ID] = asset
	m.byURI[uri] = asset.ID

	return asset
}

func (m *Memory) ListAlbums(ctx context.Context) ([]Album, error) {
	if err := ctx.Err(); err != nil {
		return nil, failure.Gateway(failure.ReasonIOFailure, "list albums", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	albums := make([]Album, 0, len(m.albums))
	for _, album := range m.albums {
		albums = append(albums, album.toAlbum())
	}

	return albums, nil
}

func (m *Memory) ListAssets(ctx context.Context, query AssetQuery) (AssetPage, error) {
	if err := ctx.Err(); err != nil {
		return AssetPage{}, failure.Gateway(failure.ReasonIOFailure, "list assets", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var candidates []Asset

	if query.AlbumID != "" {
		album := m.find(query.AlbumID)
		if album == nil {
			return AssetPage{}, failure.NotFound(fmt.Sprintf("album %s not found", query.AlbumID))
		}

		for _, id := range album.members {
			candidates = append(candidates, m.assets[id])
		}
	} else {
		for _, asset := range m.assets {
			candidates = append(candidates, asset)
		}
	}

	return selectAssets(candidates, query, m.pageSize), nil
}

func (m *Memory) FindAlbumByTitle(ctx context.Context, title string) (*Album, error) {
	if err := ctx.Err(); err != nil {
		return nil, failure.Gateway(failure.ReasonIOFailure, "find album", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, album := range m.albums {
		if album.title == title {
			found := album.toAlbum()

			return &found, nil
		}
	}

	return nil, nil
}

func (m *Memory) CreateAlbum(ctx context.Context, title, initialAssetID string) (Album, error) {
	if err := ctx.Err(); err != nil {
		return Album{}, failure.Gateway(failure.ReasonIOFailure, "create album", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.assets[initialAssetID]; !ok {
		return Album{}, failure.NotFound(fmt.Sprintf("asset %s not found", initialAssetID))
	}

	album := &memoryAlbum{
		id:      uuid.NewString(),
		title:   title,
		members: []string{initialAssetID},
	}
	m.albums = append(m.albums, album)

	return album.toAlbum(), nil
}

func (m *Memory) AddAssetsToAlbum(ctx context.Context, assetIDs []string, albumID string) error {
	if err := ctx.Err(); err != nil {
		return failure.Gateway(failure.ReasonIOFailure, "add assets", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	album := m.find(albumID)
	if album == nil {
		return failure.NotFound(fmt.Sprintf("album %s not found", albumID))
	}

	for _, id := range assetIDs {
		if _, ok := m.assets[id]; !ok {
			return failure.NotFound(fmt.Sprintf("asset %s not found", id))
		}
	}

	for _, id := range assetIDs {
		if !slices.Contains(album.members, id) {
			album.members = append(album.members, id)
		}
	}

	return nil
}

func (m *Memory) DeleteAlbum(ctx context.Context, albumID string, deleteContainedAssets bool) error {
	if err := ctx.Err(); err != nil {
		return failure.Gateway(failure.ReasonIOFailure, "delete album", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	album := m.find(albumID)
	if album == nil {
		return failure.NotFound(fmt.Sprintf("album %s not found", albumID))
	}

	m.albums = slices.DeleteFunc(m.albums, func(a *memoryAlbum) bool { return a.id == albumID })

	if deleteContainedAssets {
		m.removeAssets(album.members)
	}

	return nil
}

func (m *Memory) DeleteAssets(ctx context.Context, assetIDs []string) error {
	if err := ctx.Err(); err != nil {
		return failure.Gateway(failure.ReasonIOFailure, "delete assets", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.removeAssets(assetIDs) == 0 {
		return failure.NotFound("none of the assets exist")
	}

	return nil
}

// RegisterAsset returns the asset already holding the handle's URI, if any.
func (m *Memory) RegisterAsset(ctx context.Context, handle PickedHandle) (Asset, error) {
	if err := ctx.Err(); err != nil {
		return Asset{}, failure.Gateway(failure.ReasonIOFailure, "register asset", err)
	}

	if handle.URI == "" {
		return Asset{}, failure.Gateway(failure.ReasonIOFailure, "asset URI is missing", nil)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.byURI[handle.URI]; ok {
		return m.assets[id], nil
	}

	kind, ok := kindOf(handle.URI)
	if !ok {
		kind = KindPhoto
	}

	asset := Asset{ID: uuid.NewString(), URI: handle.URI, Kind: kind, CreatedAt: m.now()}
	m.assets[asset.ID] = asset
	m.byURI[asset.URI] = asset.ID

	return asset, nil
}

func (m *Memory) ImportFromExternalSource(ctx context.Context) ([]PickedHandle, error) {
	m.mu.RLock()
	picker := m.picker
	m.mu.RUnlock()

	if picker == nil {
		return nil, nil
	}

	handles, err := picker(ctx)
	if err != nil {
		return nil, failure.Gateway(failure.ReasonIOFailure, "pick assets", err)
	}

	return handles, nil
}

func (m *Memory) find(albumID string) *memoryAlbum {
	for _, album := range m.albums {
		if album.id == albumID {
			return album
		}
	}

	return nil
}

func (m *Memory) removeAssets(assetIDs []string) int {
	removed := 0

	for _, id := range assetIDs {
		asset, ok := m.assets[id]
		if !ok {
			continue
		}

		delete(m.assets, id)
		delete(m.byURI, asset.URI)
		removed++

		for _, album := range m.albums {
			album.members = slices.DeleteFunc(album.members, func(member string) bool { return member == id })
		}
	}

	return removed
}

func (a *memoryAlbum) toAlbum() Album {
	return Album{ID: a.id, Title: a.title, AssetCount: len(a.members)}
}
