package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"albumsync/infras/otel"
	"albumsync/shared/constant"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const lockRetryDelay = 50 * time.Millisecond

type fileRecord struct {
	Value     json.RawMessage `json:"value"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
}

// fileCache keeps every key in one JSON document. Writes go to a temp file that is
// renamed over the document, and a flock guards other processes sharing the path.
type fileCache struct {
	fs   afero.Fs
	path string
	lock *flock.Flock
	mu   sync.Mutex
	otel otel.Otel
}

// NewFileCache builds a file backed Cache. An empty lockPath disables the
// cross-process lock.
func NewFileCache(fsys afero.Fs, path, lockPath string, ot otel.Otel) Cache {
	c := &fileCache{
		fs:   fsys,
		path: path,
		otel: ot,
	}

	if lockPath != "" {
		c.lock = flock.New(lockPath)
	}

	return c
}

// Get implements Cache.
func (c *fileCache) Get(ctx context.Context, key string, value any) (err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelCacheScopeName, constant.OtelCacheScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelCacheKeyAttribute, key)

	c.mu.Lock()
	defer c.mu.Unlock()

	unlock, err := c.acquire(ctx, false)
	if err != nil {
		return err
	}
	defer unlock()

	records, err := c.read()
	if err != nil {
		return err
	}

	record, ok := records[key]
	if !ok || record.expired(time.Now()) {
		return ErrMiss
	}

	if err = json.Unmarshal(record.Value, value); err != nil {
		log.Error().Err(err).Str("key", key).Str("FileCache", "Get").Msg("failed to unmarshal cache")

		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	return nil
}

// Save implements Cache.
func (c *fileCache) Save(ctx context.Context, key string, value any, duration int) (err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelCacheScopeName, constant.OtelCacheScopeName+".Save")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelCacheKeyAttribute, key)

	raw, err := json.Marshal(value)
	if err != nil {
		log.Error().Err(err).Str("key", key).Str("FileCache", "Save").Msg("failed to marshal cache")

		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	record := fileRecord{Value: raw}
	if duration > 0 {
		expiresAt := time.Now().Add(time.Second * time.Duration(duration))
		record.ExpiresAt = &expiresAt
	}

	return c.update(ctx, func(records map[string]fileRecord) {
		records[key] = record
	})
}

// Delete implements Cache.
func (c *fileCache) Delete(ctx context.Context, key string) (err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelCacheScopeName, constant.OtelCacheScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelCacheKeyAttribute, key)

	return c.update(ctx, func(records map[string]fileRecord) {
		delete(records, key)
	})
}

func (c *fileCache) update(ctx context.Context, mutate func(map[string]fileRecord)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	unlock, err := c.acquire(ctx, true)
	if err != nil {
		return err
	}
	defer unlock()

	records, err := c.read()
	if err != nil {
		// An unreadable document is replaced rather than blocking every future write.
		log.Warn().Err(err).Str("path", c.path).Msg("discarding unreadable cache file")

		records = make(map[string]fileRecord)
	}

	mutate(records)

	now := time.Now()
	for key, record := range records {
		if record.expired(now) {
			delete(records, key)
		}
	}

	return c.write(records)
}

func (c *fileCache) acquire(ctx context.Context, exclusive bool) (func(), error) {
	if c.lock == nil {
		return func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(c.lock.Path()), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	var (
		ok  bool
		err error
	)

	if exclusive {
		ok, err = c.lock.TryLockContext(ctx, lockRetryDelay)
	} else {
		ok, err = c.lock.TryRLockContext(ctx, lockRetryDelay)
	}

	if err != nil {
		return nil, fmt.Errorf("acquire cache lock: %w", err)
	}

	if !ok {
		return nil, errors.New("acquire cache lock: lock not obtained")
	}

	return func() {
		if err := c.lock.Unlock(); err != nil {
			log.Warn().Err(err).Str("lock", c.lock.Path()).Msg("failed to release cache lock")
		}
	}, nil
}

func (c *fileCache) read() (map[string]fileRecord, error) {
	data, err := afero.ReadFile(c.fs, c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(map[string]fileRecord), nil
		}

		return nil, fmt.Errorf("read cache file: %w", err)
	}

	records := make(map[string]fileRecord)
	if len(data) == 0 {
		return records, nil
	}

	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: parse cache file: %w", ErrCorrupt, err)
	}

	return records, nil
}

func (c *fileCache) write(records map[string]fileRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	if err := c.fs.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := afero.WriteFile(c.fs, tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := c.fs.Rename(tmpPath, c.path); err != nil {
		_ = c.fs.Remove(tmpPath)

		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

func (r fileRecord) expired(now time.Time) bool {
	return r.ExpiresAt != nil && now.After(*r.ExpiresAt)
}
