package model

import "time"

const EntityName = "album"

// MirrorEntry is the persisted projection of one device album. The JSON layout is the
// mirror's storage format.
type MirrorEntry struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	PreviewReference *string `json:"previewReference"`
}

// Preview returns the preview reference, empty when not yet resolved.
func (e MirrorEntry) Preview() string {
	if e.PreviewReference == nil {
		return ""
	}

	return *e.PreviewReference
}

// ImportState records the one-time bulk import of the device library.
type ImportState struct {
	Completed   bool      `json:"completed"`
	CompletedAt time.Time `json:"completed_at,omitzero"`
	Imported    int       `json:"imported"`
	Total       int       `json:"total,omitempty"`
}

// Partial reports whether the import stopped short of the device's reported total.
func (s ImportState) Partial() bool {
	return s.Imported < s.Total
}

type FlowState string

const (
	FlowIdle        FlowState = "idle"
	FlowNamePending FlowState = "name_pending"
	FlowSubmitting  FlowState = "submitting"
	FlowSucceeded   FlowState = "succeeded"
	FlowFailed      FlowState = "failed"
)

// Flow is one album creation as seen by the presentation layer.
type Flow struct {
	ID        string    `json:"id,omitempty"`
	State     FlowState `json:"state"`
	Title     string    `json:"title,omitempty"`
	Error     string    `json:"error,omitempty"`
	Cancelled bool      `json:"cancelled,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// Active reports whether the flow still blocks a new one from starting.
func (f Flow) Active() bool {
	return f.State == FlowNamePending || f.State == FlowSubmitting
}

type Photo struct {
	ID        string    `json:"id"`
	URI       string    `json:"uri"`
	CreatedAt time.Time `json:"created_at"`
}

// Snapshot is the engine state rendered by the presentation layer.
type Snapshot struct {
	Albums      []MirrorEntry `json:"albums"`
	Photos      []Photo       `json:"photos"`
	ViewAlbumID string        `json:"view_album_id,omitempty"`
	Flow        Flow          `json:"flow"`
	Import      ImportState   `json:"import"`
	Generation  uint64        `json:"generation"`

	// PersistenceError is the last mirror read or write failure, empty once a write succeeds.
	PersistenceError string `json:"persistence_error,omitempty"`
}
