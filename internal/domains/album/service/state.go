package service

import (
	"slices"
	"sync"

	"albumsync/internal/domains/album/model"
	"albumsync/internal/domains/album/model/dto"
)

// update applies a state change and publishes the resulting snapshot.
func (s *serviceImpl) update(mutate func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mutate()
	s.generation++

	snapshot := s.snapshotLocked()

	for _, ch := range s.subscribers {
		offer(ch, snapshot)
	}
}

// offer hands the snapshot to a subscriber, replacing one it has not read yet.
func offer(ch chan model.Snapshot, snapshot model.Snapshot) {
	select {
	case ch <- snapshot:
		return
	default:
	}

	select {
	case <-ch:
	default:
	}

	select {
	case ch <- snapshot:
	default:
	}
}

func (s *serviceImpl) Albums() []dto.AlbumResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]dto.AlbumResponse, len(s.albums))
	for i, entry := range s.albums {
		res[i].FromEntry(entry)
	}

	return res
}

func (s *serviceImpl) Photos() []model.Photo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.photos)
}

func (s *serviceImpl) Snapshot() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked()
}

// Subscribe delivers the current snapshot and then the latest one after every change.
// A slow reader only misses intermediate snapshots. The returned func unsubscribes.
func (s *serviceImpl) Subscribe() (<-chan model.Snapshot, func()) {
	ch := make(chan model.Snapshot, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = ch
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	var once sync.Once

	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			delete(s.subscribers, id)
			close(ch)
		})
	}
}

func (s *serviceImpl) snapshotLocked() model.Snapshot {
	albums := slices.Clone(s.albums)
	if albums == nil {
		albums = []model.MirrorEntry{}
	}

	photos := slices.Clone(s.photos)
	if photos == nil {
		photos = []model.Photo{}
	}

	return model.Snapshot{
		Albums:           albums,
		Photos:           photos,
		ViewAlbumID:      s.viewAlbumID,
		Flow:             s.flowLocked(),
		Import:           s.imported,
		Generation:       s.generation,
		PersistenceError: s.persistErr,
	}
}

func (s *serviceImpl) flowLocked() model.Flow {
	switch {
	case s.active != nil:
		return *s.active
	case s.pending != nil:
		return *s.pending
	default:
		return s.last
	}
}
