package dto

import (
	"albumsync/infras/device"
	"albumsync/internal/domains/album/model"
)

type CreateAlbumRequest struct {
	Title   string                `json:"title"   validate:"required,notblank,max=255"`
	Handles []device.PickedHandle `json:"handles" validate:"required,min=1"`
}

type PickAlbumRequest struct {
	Title string `json:"title" validate:"required,notblank,max=255"`
}

type AlbumResponse struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Preview string `json:"preview"`
}

func (r *AlbumResponse) FromEntry(entry model.MirrorEntry) {
	r.ID = entry.ID
	r.Title = entry.Title
	r.Preview = entry.Preview()
}

// HandleFailure is a picked item that could not be registered.
type HandleFailure struct {
	URI    string `json:"uri"`
	Reason string `json:"reason"`
}

type CreateAlbumResponse struct {
	Album     AlbumResponse   `json:"album"`
	Reused    bool            `json:"reused"`
	Requested int             `json:"requested"`
	Added     int             `json:"added"`
	Failures  []HandleFailure `json:"failures,omitempty"`
}

// Complete reports whether every requested handle ended up in the album.
func (r CreateAlbumResponse) Complete() bool {
	return r.Added == r.Requested
}

type ImportResponse struct {
	CollectionID    string `json:"collection_id,omitempty"`
	Fetched         int    `json:"fetched"`
	Total           int    `json:"total"`
	AlreadyImported bool   `json:"already_imported"`
}

// Partial reports whether the device listing was truncated.
func (r ImportResponse) Partial() bool {
	return r.Fetched < r.Total
}

type PhotosResponse struct {
	AlbumID string        `json:"album_id"`
	Photos  []model.Photo `json:"photos"`
	Total   int           `json:"total"`
}

func (r *PhotosResponse) FromPage(albumID string, page device.AssetPage) {
	r.AlbumID = albumID
	r.Total = page.TotalCount

	r.Photos = make([]model.Photo, len(page.Assets))
	for i, asset := range page.Assets {
		r.Photos[i] = model.Photo{ID: asset.ID, URI: asset.URI, CreatedAt: asset.CreatedAt}
	}
}
