package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"albumsync/config"
	"albumsync/infras/device"
	deviceMocks "albumsync/infras/device/mocks"
	"albumsync/infras/otel/mocks"
	"albumsync/internal/domains/preview/service"
	"albumsync/shared/failure"
)

const placeholder = "https://via.placeholder.com/150"

func newConfig(granted bool) *config.Config {
	cfg := &config.Config{}
	cfg.Gallery.PlaceholderURI = placeholder
	cfg.Device.PermissionGranted = granted

	return cfg
}

func TestPreviewService_Resolve(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGateway := deviceMocks.NewMockGateway(ctrl)
	cfg := newConfig(true)

	svc := service.New(mockGateway, device.NewCapability(cfg), cfg, mocks.NewOtel())

	query := device.AssetQuery{
		AlbumID: "album-1",
		Kinds:   []device.MediaKind{device.KindPhoto},
		SortBy:  device.SortCreationTime,
		Limit:   1,
	}

	tests := []struct {
		name      string
		setupMock func()
		want      string
		wantErr   bool
	}{
		{
			name: "first photo",
			setupMock: func() {
				mockGateway.EXPECT().
					ListAssets(gomock.Any(), query).
					Return(device.AssetPage{
						Assets:     []device.Asset{{ID: "p1", URI: "file:///p1.jpg", Kind: device.KindPhoto, CreatedAt: time.Now()}},
						TotalCount: 5,
					}, nil)
			},
			want: "file:///p1.jpg",
		},
		{
			name: "empty album",
			setupMock: func() {
				mockGateway.EXPECT().
					ListAssets(gomock.Any(), query).
					Return(device.AssetPage{}, nil)
			},
			want: placeholder,
		},
		{
			name: "asset without uri",
			setupMock: func() {
				mockGateway.EXPECT().
					ListAssets(gomock.Any(), query).
					Return(device.AssetPage{Assets: []device.Asset{{ID: "p1"}}, TotalCount: 1}, nil)
			},
			want: placeholder,
		},
		{
			name: "gateway failure",
			setupMock: func() {
				mockGateway.EXPECT().
					ListAssets(gomock.Any(), query).
					Return(device.AssetPage{}, failure.NotFound("album album-1 not found"))
			},
			want:    placeholder,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ref, err := svc.Resolve(context.Background(), "album-1")

			assert.Equal(t, tt.want, ref)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPreviewService_ResolveWithoutPermission(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGateway := deviceMocks.NewMockGateway(ctrl)
	cfg := newConfig(false)

	svc := service.New(mockGateway, device.NewCapability(cfg), cfg, mocks.NewOtel())

	ref, err := svc.Resolve(context.Background(), "album-1")

	assert.Equal(t, placeholder, ref)
	assert.True(t, failure.IsKind(err, failure.KindPermissionDenied))
}

func TestPreviewService_ResolveIsIdempotent(t *testing.T) {
	store := device.NewMemory(0)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	newer := store.AddAsset("file:///newer.jpg", device.KindPhoto, base.Add(time.Hour))
	older := store.AddAsset("file:///older.jpg", device.KindPhoto, base)
	video := store.AddAsset("file:///clip.mp4", device.KindVideo, base.Add(-time.Hour))

	ctx := context.Background()

	album, err := store.CreateAlbum(ctx, "Trip", newer.ID)
	assert.NoError(t, err)
	assert.NoError(t, store.AddAssetsToAlbum(ctx, []string{video.ID, older.ID}, album.ID))

	cfg := newConfig(true)
	svc := service.New(store, device.NewCapability(cfg), cfg, mocks.NewOtel())

	for range 3 {
		ref, err := svc.Resolve(ctx, album.ID)
		assert.NoError(t, err)
		assert.Equal(t, older.URI, ref)
	}
}
