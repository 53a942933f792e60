package device

//go:generate go run go.uber.org/mock/mockgen -source=./device.go -destination=./mocks/gateway_mock.go -package=mocks

import (
	"context"
	"path"
	"slices"
	"strings"
	"time"

	"albumsync/config"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

type MediaKind string

const (
	KindPhoto MediaKind = "photo"
	KindVideo MediaKind = "video"
)

type SortKey string

const (
	SortDefault      SortKey = ""
	SortCreationTime SortKey = "creationTime"
)

type Album struct {
	ID         string
	Title      string
	AssetCount int
}

type Asset struct {
	ID        string
	URI       string
	Kind      MediaKind
	CreatedAt time.Time
}

// AssetQuery selects assets. An empty AlbumID matches the whole library, empty Kinds
// matches every kind and a zero Limit asks for everything the store returns in one page.
type AssetQuery struct {
	AlbumID string
	Kinds   []MediaKind
	SortBy  SortKey
	Limit   int
}

// AssetPage is one listing. TotalCount is the store's own count of matching assets and
// exceeds len(Assets) when the store truncated the page.
type AssetPage struct {
	Assets     []Asset
	TotalCount int
}

func (p AssetPage) Complete() bool {
	return len(p.Assets) >= p.TotalCount
}

// PickedHandle is an item chosen in an external picker, not yet registered with the store.
type PickedHandle struct {
	URI      string `json:"uri"`
	FileName string `json:"file_name,omitempty"`
}

// Gateway is the device media store. Errors are *failure.Failure values of kind gateway.
type Gateway interface {
	ListAlbums(ctx context.Context) ([]Album, error)
	ListAssets(ctx context.Context, query AssetQuery) (AssetPage, error)
	FindAlbumByTitle(ctx context.Context, title string) (*Album, error)
	CreateAlbum(ctx context.Context, title, initialAssetID string) (Album, error)
	AddAssetsToAlbum(ctx context.Context, assetIDs []string, albumID string) error
	DeleteAlbum(ctx context.Context, albumID string, deleteContainedAssets bool) error
	DeleteAssets(ctx context.Context, assetIDs []string) error
	RegisterAsset(ctx context.Context, handle PickedHandle) (Asset, error)
	ImportFromExternalSource(ctx context.Context) ([]PickedHandle, error)
}

// New selects the store configured by DEVICE_BACKEND.
func New(cfg *config.Config) Gateway {
	switch cfg.Device.Backend {
	case config.DeviceBackendMemory:
		log.Info().Str("backend", cfg.Device.Backend).Msg("using in-memory device store")

		return NewMemory(cfg.Device.PageSize)
	default:
		log.Info().
			Str("backend", config.DeviceBackendLibrary).
			Str("root", cfg.Device.Root).
			Str("inbox", cfg.Device.Inbox).
			Msg("using directory device store")

		return NewLibrary(afero.NewOsFs(), cfg.Device.Root, cfg.Device.Inbox, cfg.Device.PageSize)
	}
}

var (
	photoExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".heic", ".heif", ".webp", ".bmp"}
	videoExtensions = []string{".mp4", ".mov", ".m4v", ".avi", ".mkv"}
)

// kindOf reports the media kind of a file name, false for files that are not media.
func kindOf(name string) (MediaKind, bool) {
	ext := strings.ToLower(path.Ext(name))

	switch {
	case slices.Contains(photoExtensions, ext):
		return KindPhoto, true
	case slices.Contains(videoExtensions, ext):
		return KindVideo, true
	default:
		return "", false
	}
}

// selectAssets applies a query to candidate assets. Ordering is always total (creation
// time, then id) so a query against unchanged state returns the same page.
func selectAssets(candidates []Asset, query AssetQuery, pageSize int) AssetPage {
	matched := make([]Asset, 0, len(candidates))

	for _, asset := range candidates {
		if len(query.Kinds) > 0 && !slices.Contains(query.Kinds, asset.Kind) {
			continue
		}

		matched = append(matched, asset)
	}

	slices.SortFunc(matched, func(a, b Asset) int {
		if query.SortBy == SortCreationTime {
			if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
				return c
			}
		}

		return strings.Compare(a.ID, b.ID)
	})

	total := len(matched)

	limit := query.Limit
	if pageSize > 0 && (limit <= 0 || limit > pageSize) {
		limit = pageSize
	}

	if limit > 0 && limit < total {
		matched = matched[:limit]
	}

	return AssetPage{Assets: matched, TotalCount: total}
}
