package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"albumsync/config"
	"albumsync/di"
	"albumsync/shared/failure"
	"albumsync/shared/logger"
	"albumsync/shared/timezone"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	timezone.Init(cfg.App.Timezone)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := di.InitializeApp()

	defer func() {
		if err := app.Otel.Shutdown(context.WithoutCancel(ctx)); err != nil {
			log.Warn().Err(err).Msg("Failed to flush traces")
		}
	}()

	runStartupSync(ctx, app)
}

// runStartupSync runs one startup pass: restore the mirror, import the device library once,
// relist albums and load the default collection.
func runStartupSync(ctx context.Context, app *di.App) {
	snapshot := app.Engine.Load(ctx)

	log.Info().Int("albums", len(snapshot.Albums)).Bool("imported", snapshot.Import.Completed).Msg("Mirror restored")

	imported, err := app.Engine.BulkImportDeviceLibrary(ctx)

	switch {
	case failure.IsPartial(err):
		log.Warn().Err(err).Int("fetched", imported.Fetched).Int("total", imported.Total).Msg("Device library partially imported")
	case err != nil:
		log.Error().Err(err).Int("code", failure.GetCode(err)).Msg("Device library import failed")
	case imported.AlreadyImported:
		log.Info().Int("photos", imported.Fetched).Bool("partial", imported.Partial()).Msg("Device library already imported")
	default:
		log.Info().Int("photos", imported.Fetched).Msg("Device library imported")
	}

	albums, err := app.Engine.RefreshAlbums(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Album refresh failed, showing the last known albums")
	}

	for _, album := range albums {
		log.Info().Str("id", album.ID).Str("title", album.Title).Str("preview", album.Preview).Msg("Album")
	}

	photos, err := app.Engine.LoadPhotos(ctx, "")
	if err != nil && !failure.IsPartial(err) {
		log.Error().Err(err).Msg("Failed to load the default collection")

		return
	}

	log.Info().Str("album", photos.AlbumID).Int("photos", len(photos.Photos)).Int("total", photos.Total).Msg("Default collection loaded")
}
