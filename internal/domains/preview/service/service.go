package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"

	"albumsync/config"
	"albumsync/infras/device"
	"albumsync/infras/otel"
	"albumsync/shared/constant"
	"albumsync/shared/failure"

	"github.com/rs/zerolog/log"
)

// Preview picks the representative photo of an album.
type Preview interface {
	Resolve(ctx context.Context, albumID string) (string, error)
	Placeholder() string
}

type serviceImpl struct {
	gateway device.Gateway
	perm    device.Permission
	cfg     *config.Config
	otel    otel.Otel
}

func New(gateway device.Gateway, perm device.Permission, cfg *config.Config, otel otel.Otel) Preview {
	return &serviceImpl{
		gateway: gateway,
		perm:    perm,
		cfg:     cfg,
		otel:    otel,
	}
}

func (s *serviceImpl) Placeholder() string {
	return s.cfg.Gallery.PlaceholderURI
}

// Resolve returns the URI of the oldest photo in the album, ties broken by asset id.
// The reference is never empty: when nothing qualifies, or the lookup fails, it is the
// placeholder and err tells the two apart.
func (s *serviceImpl) Resolve(ctx context.Context, albumID string) (ref string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ResolvePreview")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelAlbumIDAttributeKey, albumID)

	if !s.perm.Granted() {
		return s.Placeholder(), failure.ErrNoPermission
	}

	page, err := s.gateway.ListAssets(ctx, device.AssetQuery{
		AlbumID: albumID,
		Kinds:   []device.MediaKind{device.KindPhoto},
		SortBy:  device.SortCreationTime,
		Limit:   1,
	})
	if err != nil {
		log.Warn().Err(err).Str("album", albumID).Msg("failed to resolve album preview")

		return s.Placeholder(), err
	}

	if len(page.Assets) == 0 || page.Assets[0].URI == "" {
		return s.Placeholder(), nil
	}

	return page.Assets[0].URI, nil
}
