package device_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"albumsync/infras/device"
	"albumsync/shared/failure"
)

func TestMemory_ListAssets(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	store := device.NewMemory(0)
	late := store.AddAsset("file:///late.jpg", device.KindPhoto, base.Add(2*time.Hour))
	early := store.AddAsset("file:///early.jpg", device.KindPhoto, base)
	store.AddAsset("file:///clip.mp4", device.KindVideo, base.Add(time.Hour))

	tests := []struct {
		name      string
		query     device.AssetQuery
		pageSize  int
		wantIDs   []string
		wantTotal int
	}{
		{
			name:      "photos sorted by creation time",
			query:     device.AssetQuery{Kinds: []device.MediaKind{device.KindPhoto}, SortBy: device.SortCreationTime},
			wantIDs:   []string{early.ID, late.ID},
			wantTotal: 2,
		},
		{
			name:      "limit keeps the total count",
			query:     device.AssetQuery{Kinds: []device.MediaKind{device.KindPhoto}, SortBy: device.SortCreationTime, Limit: 1},
			wantIDs:   []string{early.ID},
			wantTotal: 2,
		},
		{
			name:      "page size truncates",
			query:     device.AssetQuery{SortBy: device.SortCreationTime},
			pageSize:  2,
			wantTotal: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store.SetPageSize(tt.pageSize)

			page, err := store.ListAssets(ctx, tt.query)
			require.NoError(t, err)

			assert.Equal(t, tt.wantTotal, page.TotalCount)

			if tt.wantIDs != nil {
				ids := make([]string, 0, len(page.Assets))
				for _, asset := range page.Assets {
					ids = append(ids, asset.ID)
				}

				assert.Equal(t, tt.wantIDs, ids)
			}

			if tt.pageSize > 0 {
				assert.Len(t, page.Assets, tt.pageSize)
				assert.False(t, page.Complete())
			}
		})
	}
}

func TestMemory_AlbumLifecycle(t *testing.T) {
	ctx := context.Background()
	store := device.NewMemory(0)

	first := store.AddAsset("file:///a.jpg", device.KindPhoto, time.Now())
	second := store.AddAsset("file:///b.jpg", device.KindPhoto, time.Now())

	found, err := store.FindAlbumByTitle(ctx, "Trip")
	require.NoError(t, err)
	assert.Nil(t, found)

	album, err := store.CreateAlbum(ctx, "Trip", first.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, album.AssetCount)

	require.NoError(t, store.AddAssetsToAlbum(ctx, []string{first.ID, second.ID}, album.ID))
	require.NoError(t, store.AddAssetsToAlbum(ctx, []string{second.ID}, album.ID))

	found, err = store.FindAlbumByTitle(ctx, "Trip")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 2, found.AssetCount)

	require.NoError(t, store.DeleteAssets(ctx, []string{second.ID}))

	page, err := store.ListAssets(ctx, device.AssetQuery{AlbumID: album.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalCount)

	require.NoError(t, store.DeleteAlbum(ctx, album.ID, true))

	albums, err := store.ListAlbums(ctx)
	require.NoError(t, err)
	assert.Empty(t, albums)

	page, err = store.ListAssets(ctx, device.AssetQuery{})
	require.NoError(t, err)
	assert.Zero(t, page.TotalCount)

	err = store.DeleteAlbum(ctx, album.ID, true)
	assert.True(t, failure.IsNotFound(err))
}

func TestMemory_RegisterAsset(t *testing.T) {
	ctx := context.Background()
	store := device.NewMemory(0)

	asset, err := store.RegisterAsset(ctx, device.PickedHandle{URI: "file:///picked.png"})
	require.NoError(t, err)
	assert.Equal(t, device.KindPhoto, asset.Kind)

	again, err := store.RegisterAsset(ctx, device.PickedHandle{URI: "file:///picked.png"})
	require.NoError(t, err)
	assert.Equal(t, asset.ID, again.ID)

	_, err = store.RegisterAsset(ctx, device.PickedHandle{})
	assert.True(t, failure.IsKind(err, failure.KindGateway))
	assert.Equal(t, failure.ReasonIOFailure, failure.ReasonOf(err))
}

func TestMemory_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := device.NewMemory(0).ListAlbums(ctx)
	assert.True(t, failure.IsKind(err, failure.KindGateway))
}
