package cache_test

import (
	"context"
	"path/filepath"
	"testing"

	"albumsync/infras/otel/mocks"
	"albumsync/shared/cache"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func TestFileCache_SaveGet(t *testing.T) {
	dir := t.TempDir()
	c := cache.NewFileCache(afero.NewOsFs(), filepath.Join(dir, "mirror.json"), filepath.Join(dir, "mirror.lock"), mocks.NewOtel())
	ctx := context.Background()

	want := []entry{{ID: "1", Title: "Trip"}, {ID: "2", Title: "Gallery"}}
	require.NoError(t, c.Save(ctx, "albums", want, 0))

	var got []entry
	require.NoError(t, c.Get(ctx, "albums", &got))
	assert.Equal(t, want, got)
}

func TestFileCache_Miss(t *testing.T) {
	c := cache.NewFileCache(afero.NewMemMapFs(), "/data/mirror.json", "", mocks.NewOtel())

	var got []entry
	err := c.Get(context.Background(), "albums", &got)
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestFileCache_Delete(t *testing.T) {
	c := cache.NewFileCache(afero.NewMemMapFs(), "/data/mirror.json", "", mocks.NewOtel())
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, "albums", []entry{{ID: "1"}}, 0))
	require.NoError(t, c.Save(ctx, "gallery:imported", map[string]bool{"completed": true}, 0))
	require.NoError(t, c.Delete(ctx, "albums"))

	var albums []entry
	assert.ErrorIs(t, c.Get(ctx, "albums", &albums), cache.ErrMiss)

	var state map[string]bool
	require.NoError(t, c.Get(ctx, "gallery:imported", &state))
	assert.True(t, state["completed"])
}

func TestFileCache_CorruptedDocument(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/data/mirror.json", []byte("{not json"), 0o644))

	c := cache.NewFileCache(fsys, "/data/mirror.json", "", mocks.NewOtel())
	ctx := context.Background()

	var got []entry
	err := c.Get(ctx, "albums", &got)
	require.Error(t, err)
	assert.NotErrorIs(t, err, cache.ErrMiss)
	assert.ErrorIs(t, err, cache.ErrCorrupt)

	// The next write replaces the unreadable document.
	require.NoError(t, c.Save(ctx, "albums", []entry{{ID: "1", Title: "Trip"}}, 0))
	require.NoError(t, c.Get(ctx, "albums", &got))
	assert.Equal(t, []entry{{ID: "1", Title: "Trip"}}, got)
}

func TestFileCache_ShapeMismatch(t *testing.T) {
	c := cache.NewFileCache(afero.NewMemMapFs(), "/data/mirror.json", "", mocks.NewOtel())
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, "albums", map[string]int{"id": 1}, 0))

	var got []entry
	assert.ErrorIs(t, c.Get(ctx, "albums", &got), cache.ErrCorrupt)
}
