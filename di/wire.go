//go:build wireinject
// +build wireinject

package di

import (
	"albumsync/config"
	"albumsync/infras/device"
	"albumsync/infras/otel"
	"albumsync/shared/cache"

	albumRepository "albumsync/internal/domains/album/repository"
	albumService "albumsync/internal/domains/album/service"
	previewService "albumsync/internal/domains/preview/service"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	otel.New,
	device.New,
	device.NewCapability,
	wire.Bind(new(device.Permission), new(*device.Capability)),
)

var sharedHelpers = wire.NewSet(
	cache.New,
)

var previewDomain = wire.NewSet(
	previewService.New,
)

var albumDomain = wire.NewSet(
	albumRepository.New,
	albumService.New,
)

var domains = wire.NewSet(
	previewDomain,
	albumDomain,
)

func InitializeApp() *App {
	wire.Build(
		configurations,
		infrastructures,
		sharedHelpers,
		domains,
		wire.Struct(new(App), "*"),
	)

	return &App{}
}
