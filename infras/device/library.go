package device

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"albumsync/shared/failure"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	manifestName = ".albums.json"
	importedDir  = "imported"
)

type manifestAlbum struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Assets    []string  `json:"assets"`
	CreatedAt time.Time `json:"created_at"`
}

type manifest struct {
	Albums []manifestAlbum `json:"albums"`
}

// Library is a device store rooted at a directory. Every media file below the root is an
// asset whose id is its slash separated path relative to the root. Albums reference
// assets from a manifest kept next to them, so one file can belong to many albums.
type Library struct {
	fs       afero.Fs
	root     string
	inbox    string
	pageSize int
	mu       sync.Mutex
}

func NewLibrary(fsys afero.Fs, root, inbox string, pageSize int) *Library {
	return &Library{
		fs:       fsys,
		root:     filepath.Clean(root),
		inbox:    inbox,
		pageSize: pageSize,
	}
}

func (l *Library) ListAlbums(ctx context.Context) ([]Album, error) {
	if err := ctx.Err(); err != nil {
		return nil, failure.Gateway(failure.ReasonIOFailure, "list albums", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	m, err := l.readManifest()
	if err != nil {
		return nil, err
	}

	assets, err := l.scan()
	if err != nil {
		return nil, err
	}

	albums := make([]Album, 0, len(m.Albums))
	for _, album := range m.Albums {
		count := 0

		for _, id := range album.Assets {
			if _, ok := assets[id]; ok {
				count++
			}
		}

		albums = append(albums, Album{ID: album.ID, Title: album.Title, AssetCount: count})
	}

	return albums, nil
}

func (l *Library) ListAssets(ctx context.Context, query AssetQuery) (AssetPage, error) {
	if err := ctx.Err(); err != nil {
		return AssetPage{}, failure.Gateway(failure.ReasonIOFailure, "list assets", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	assets, err := l.scan()
	if err != nil {
		return AssetPage{}, err
	}

	var candidates []Asset

	if query.AlbumID != "" {
		m, err := l.readManifest()
		if err != nil {
			return AssetPage{}, err
		}

		idx := m.index(query.AlbumID)
		if idx < 0 {
			return AssetPage{}, failure.NotFound(fmt.Sprintf("album %s not found", query.AlbumID))
		}

		for _, id := range m.Albums[idx].Assets {
			if asset, ok := assets[id]; ok {
				candidates = append(candidates, asset)
			}
		}
	} else {
		for _, asset := range assets {
			candidates = append(candidates, asset)
		}
	}

	return selectAssets(candidates, query, l.pageSize), nil
}

func (l *Library) FindAlbumByTitle(ctx context.Context, title string) (*Album, error) {
	if err := ctx.Err(); err != nil {
		return nil, failure.Gateway(failure.ReasonIOFailure, "find album", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	m, err := l.readManifest()
	if err != nil {
		return nil, err
	}

	for _, album := range m.Albums {
		if album.Title == title {
			return &Album{ID: album.ID, Title: album.Title, AssetCount: len(album.Assets)}, nil
		}
	}

	return nil, nil
}

func (l *Library) CreateAlbum(ctx context.Context, title, initialAssetID string) (Album, error) {
	if err := ctx.Err(); err != nil {
		return Album{}, failure.Gateway(failure.ReasonIOFailure, "create album", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.exists(initialAssetID) {
		return Album{}, failure.NotFound(fmt.Sprintf("asset %s not found", initialAssetID))
	}

	m, err := l.readManifest()
	if err != nil {
		return Album{}, err
	}

	album := manifestAlbum{
		ID:        uuid.NewString(),
		Title:     title,
		Assets:    []string{initialAssetID},
		CreatedAt: time.Now().UTC(),
	}
	m.Albums = append(m.Albums, album)

	if err := l.writeManifest(m); err != nil {
		return Album{}, err
	}

	return Album{ID: album.ID, Title: album.Title, AssetCount: 1}, nil
}

func (l *Library) AddAssetsToAlbum(ctx context.Context, assetIDs []string, albumID string) error {
	if err := ctx.Err(); err != nil {
		return failure.Gateway(failure.ReasonIOFailure, "add assets", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	m, err := l.readManifest()
	if err != nil {
		return err
	}

	idx := m.index(albumID)
	if idx < 0 {
		return failure.NotFound(fmt.Sprintf("album %s not found", albumID))
	}

	for _, id := range assetIDs {
		if !l.exists(id) {
			return failure.NotFound(fmt.Sprintf("asset %s not found", id))
		}
	}

	for _, id := range assetIDs {
		if !slices.Contains(m.Albums[idx].Assets, id) {
			m.Albums[idx].Assets = append(m.Albums[idx].Assets, id)
		}
	}

	return l.writeManifest(m)
}

func (l *Library) DeleteAlbum(ctx context.Context, albumID string, deleteContainedAssets bool) error {
	if err := ctx.Err(); err != nil {
		return failure.Gateway(failure.ReasonIOFailure, "delete album", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	m, err := l.readManifest()
	if err != nil {
		return err
	}

	idx := m.index(albumID)
	if idx < 0 {
		return failure.NotFound(fmt.Sprintf("album %s not found", albumID))
	}

	members := m.Albums[idx].Assets
	m.Albums = slices.Delete(m.Albums, idx, idx+1)

	if deleteContainedAssets {
		if err := l.removeFiles(members); err != nil {
			return err
		}

		m.drop(members)
	}

	return l.writeManifest(m)
}

func (l *Library) DeleteAssets(ctx context.Context, assetIDs []string) error {
	if err := ctx.Err(); err != nil {
		return failure.Gateway(failure.ReasonIOFailure, "delete assets", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	present := slices.DeleteFunc(slices.Clone(assetIDs), func(id string) bool { return !l.exists(id) })
	if len(present) == 0 {
		return failure.NotFound("none of the assets exist")
	}

	if err := l.removeFiles(present); err != nil {
		return err
	}

	m, err := l.readManifest()
	if err != nil {
		return err
	}

	m.drop(present)

	return l.writeManifest(m)
}

// RegisterAsset references a picked file already inside the library, otherwise copies
// it into the imported directory.
func (l *Library) RegisterAsset(ctx context.Context, handle PickedHandle) (Asset, error) {
	if err := ctx.Err(); err != nil {
		return Asset{}, failure.Gateway(failure.ReasonIOFailure, "register asset", err)
	}

	source := strings.TrimPrefix(handle.URI, "file://")
	if source == "" {
		return Asset{}, failure.Gateway(failure.ReasonIOFailure, "asset URI is missing", nil)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if rel, err := filepath.Rel(l.root, filepath.Clean(source)); err == nil && !strings.HasPrefix(rel, "..") {
		return l.stat(filepath.ToSlash(rel))
	}

	name := handle.FileName
	if name == "" {
		name = filepath.Base(source)
	}

	if _, ok := kindOf(name); !ok {
		return Asset{}, failure.Gateway(failure.ReasonIOFailure, fmt.Sprintf("%s is not a supported media file", name), nil)
	}

	data, err := afero.ReadFile(l.fs, source)
	if err != nil {
		return Asset{}, failure.Gateway(l.reason(err), "read picked file", err)
	}

	id, reused, err := l.importTarget(name, data)
	if err != nil {
		return Asset{}, err
	}

	if reused {
		return l.stat(id)
	}

	if err := l.fs.MkdirAll(filepath.Join(l.root, importedDir), 0o755); err != nil {
		return Asset{}, failure.Gateway(failure.ReasonIOFailure, "create import directory", err)
	}

	if err := afero.WriteFile(l.fs, l.abs(id), data, 0o644); err != nil {
		return Asset{}, failure.Gateway(failure.ReasonIOFailure, "copy picked file", err)
	}

	log.Debug().Str("source", source).Str("asset", id).Msg("registered picked file")

	return l.stat(id)
}

// importTarget finds where a picked file lands in the imported directory. A file with
// the same name and content is reused; a different file with the same name gets a
// numbered name such as IMG_0001-1.jpg.
func (l *Library) importTarget(name string, data []byte) (string, bool, error) {
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for n := 0; ; n++ {
		candidate := name
		if n > 0 {
			candidate = fmt.Sprintf("%s-%d%s", stem, n, ext)
		}

		id := path.Join(importedDir, candidate)
		if !l.exists(id) {
			return id, false, nil
		}

		existing, err := afero.ReadFile(l.fs, l.abs(id))
		if err != nil {
			return "", false, failure.Gateway(failure.ReasonIOFailure, "read imported file", err)
		}

		if bytes.Equal(existing, data) {
			return id, true, nil
		}
	}
}

// ImportFromExternalSource picks every media file waiting in the inbox directory.
func (l *Library) ImportFromExternalSource(ctx context.Context) ([]PickedHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, failure.Gateway(failure.ReasonIOFailure, "pick assets", err)
	}

	if l.inbox == "" {
		return nil, nil
	}

	entries, err := afero.ReadDir(l.fs, l.inbox)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, failure.Gateway(failure.ReasonIOFailure, "read inbox", err)
	}

	var handles []PickedHandle

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if _, ok := kindOf(entry.Name()); !ok {
			continue
		}

		handles = append(handles, PickedHandle{
			URI:      "file://" + filepath.ToSlash(filepath.Join(l.inbox, entry.Name())),
			FileName: entry.Name(),
		})
	}

	return handles, nil
}

// scan walks the root and returns every media asset keyed by id.
func (l *Library) scan() (map[string]Asset, error) {
	assets := make(map[string]Asset)

	if ok, err := afero.DirExists(l.fs, l.root); err != nil {
		return nil, failure.Gateway(failure.ReasonIOFailure, "stat library root", err)
	} else if !ok {
		return assets, nil
	}

	err := afero.Walk(l.fs, l.root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if p != l.root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}

			return nil
		}

		kind, ok := kindOf(info.Name())
		if !ok {
			return nil
		}

		rel, err := filepath.Rel(l.root, p)
		if err != nil {
			return err
		}

		id := filepath.ToSlash(rel)
		assets[id] = Asset{ID: id, URI: l.uri(id), Kind: kind, CreatedAt: info.ModTime()}

		return nil
	})
	if err != nil {
		return nil, failure.Gateway(failure.ReasonIOFailure, "scan library", err)
	}

	return assets, nil
}

func (l *Library) stat(id string) (Asset, error) {
	info, err := l.fs.Stat(l.abs(id))
	if err != nil {
		return Asset{}, failure.Gateway(l.reason(err), fmt.Sprintf("stat asset %s", id), err)
	}

	kind, ok := kindOf(info.Name())
	if !ok {
		return Asset{}, failure.Gateway(failure.ReasonIOFailure, fmt.Sprintf("%s is not a supported media file", id), nil)
	}

	return Asset{ID: id, URI: l.uri(id), Kind: kind, CreatedAt: info.ModTime()}, nil
}

func (l *Library) exists(id string) bool {
	if id == "" || strings.HasPrefix(id, "..") {
		return false
	}

	info, err := l.fs.Stat(l.abs(id))

	return err == nil && !info.IsDir()
}

func (l *Library) removeFiles(ids []string) error {
	for _, id := range ids {
		if err := l.fs.Remove(l.abs(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return failure.Gateway(failure.ReasonIOFailure, fmt.Sprintf("remove asset %s", id), err)
		}
	}

	return nil
}

func (l *Library) readManifest() (manifest, error) {
	var m manifest

	data, err := afero.ReadFile(l.fs, filepath.Join(l.root, manifestName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return m, nil
		}

		return m, failure.Gateway(failure.ReasonIOFailure, "read album manifest", err)
	}

	if err := json.Unmarshal(data, &m); err != nil {
		return m, failure.Gateway(failure.ReasonIOFailure, "parse album manifest", err)
	}

	return m, nil
}

func (l *Library) writeManifest(m manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return failure.Gateway(failure.ReasonIOFailure, "encode album manifest", err)
	}

	if err := l.fs.MkdirAll(l.root, 0o755); err != nil {
		return failure.Gateway(failure.ReasonIOFailure, "create library root", err)
	}

	target := filepath.Join(l.root, manifestName)
	tmp := target + ".tmp"

	if err := afero.WriteFile(l.fs, tmp, data, 0o644); err != nil {
		return failure.Gateway(failure.ReasonIOFailure, "write album manifest", err)
	}

	if err := l.fs.Rename(tmp, target); err != nil {
		_ = l.fs.Remove(tmp)

		return failure.Gateway(failure.ReasonIOFailure, "replace album manifest", err)
	}

	return nil
}

func (l *Library) abs(id string) string {
	return filepath.Join(l.root, filepath.FromSlash(id))
}

func (l *Library) uri(id string) string {
	return "file://" + filepath.ToSlash(l.abs(id))
}

func (l *Library) reason(err error) failure.Reason {
	if errors.Is(err, fs.ErrNotExist) {
		return failure.ReasonNotFound
	}

	if errors.Is(err, fs.ErrPermission) {
		return failure.ReasonPermissionDenied
	}

	return failure.ReasonIOFailure
}

func (m manifest) index(albumID string) int {
	return slices.IndexFunc(m.Albums, func(a manifestAlbum) bool { return a.ID == albumID })
}

func (m *manifest) drop(assetIDs []string) {
	for i := range m.Albums {
		m.Albums[i].Assets = slices.DeleteFunc(m.Albums[i].Assets, func(id string) bool {
			return slices.Contains(assetIDs, id)
		})
	}
}
