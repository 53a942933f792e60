package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"albumsync/infras/device"
	"albumsync/internal/domains/album/model"
	"albumsync/internal/domains/album/model/dto"
	"albumsync/shared/validator"
)

func TestAlbumResponse_FromEntry(t *testing.T) {
	preview := "file:///library/a.jpg"

	var response dto.AlbumResponse
	response.FromEntry(model.MirrorEntry{ID: "album-1", Title: "Trip", PreviewReference: &preview})

	assert.Equal(t, "album-1", response.ID)
	assert.Equal(t, "Trip", response.Title)
	assert.Equal(t, preview, response.Preview)

	response.FromEntry(model.MirrorEntry{ID: "album-2", Title: "Empty"})
	assert.Empty(t, response.Preview)
}

func TestPhotosResponse_FromPage(t *testing.T) {
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	page := device.AssetPage{
		Assets: []device.Asset{
			{ID: "a", URI: "file:///a.jpg", Kind: device.KindPhoto, CreatedAt: created},
		},
		TotalCount: 4,
	}

	var response dto.PhotosResponse
	response.FromPage("album-1", page)

	assert.Equal(t, "album-1", response.AlbumID)
	assert.Equal(t, 4, response.Total)
	assert.Equal(t, []model.Photo{{ID: "a", URI: "file:///a.jpg", CreatedAt: created}}, response.Photos)
}

func TestCreateAlbumRequest_Validation(t *testing.T) {
	handles := []device.PickedHandle{{URI: "file:///a.jpg"}}

	tests := []struct {
		name    string
		req     dto.CreateAlbumRequest
		wantErr bool
	}{
		{name: "valid", req: dto.CreateAlbumRequest{Title: "Trip", Handles: handles}},
		{name: "empty title", req: dto.CreateAlbumRequest{Handles: handles}, wantErr: true},
		{name: "blank title", req: dto.CreateAlbumRequest{Title: "   ", Handles: handles}, wantErr: true},
		{name: "no handles", req: dto.CreateAlbumRequest{Title: "Trip", Handles: []device.PickedHandle{}}, wantErr: true},
		{name: "nil handles", req: dto.CreateAlbumRequest{Title: "Trip"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResponses_Completeness(t *testing.T) {
	assert.True(t, dto.CreateAlbumResponse{Requested: 2, Added: 2}.Complete())
	assert.False(t, dto.CreateAlbumResponse{Requested: 3, Added: 2}.Complete())
	assert.True(t, dto.ImportResponse{Fetched: 7, Total: 10}.Partial())
	assert.False(t, dto.ImportResponse{Fetched: 10, Total: 10}.Partial())
}
