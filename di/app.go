package di

import (
	"albumsync/config"
	"albumsync/infras/device"
	"albumsync/infras/otel"
	albumService "albumsync/internal/domains/album/service"
)

// App is the assembled sync engine with the collaborators the binary manages directly.
type App struct {
	Config     *config.Config
	Otel       otel.Otel
	Capability *device.Capability
	Engine     albumService.Album
}
