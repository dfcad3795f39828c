package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/faizan/catalog/models"
)

// MemoryRepository is an in-memory Gateway. It is safe for concurrent use and
// intended for tests and local development. It has no multi-row transactions,
// so it does not implement Transactor.
type MemoryRepository struct {
	mu sync.RWMutex

	nextArtistID uint
	nextGenreID  uint
	nextTrackID  uint

	artists map[uint]models.Artist
	genres  map[uint]models.Genre
	tracks  map[uint]models.Track
	// links maps a track id to the set of its artist ids.
	links map[uint]map[uint]struct{}
}

var _ Gateway = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextArtistID: 1,
		nextGenreID:  1,
		nextTrackID:  1,
		artists:      make(map[uint]models.Artist),
		genres:       make(map[uint]models.Genre),
		tracks:       make(map[uint]models.Track),
		links:        make(map[uint]map[uint]struct{}),
	}
}

func (s *MemoryRepository) GetArtist(_ context.Context, id uint) (*models.Artist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	artist, ok := s.artists[id]
	if !ok {
		return nil, ErrNotFound
	}
	artist.Tracks = s.tracksOfArtistLocked(id, false)
	return &artist, nil
}

func (s *MemoryRepository) ListArtists(_ context.Context) ([]models.Artist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Artist, 0, len(s.artists))
	for _, id := range sortedKeys(s.artists) {
		artist := s.artists[id]
		artist.Tracks = s.tracksOfArtistLocked(id, false)
		out = append(out, artist)
	}
	return out, nil
}

func (s *MemoryRepository) ListArtistIDs(_ context.Context) ([]uint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.artists), nil
}

func (s *MemoryRepository) FindArtistByName(_ context.Context, name string) (*models.Artist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range sortedKeys(s.artists) {
		if artist := s.artists[id]; artist.Name == name {
			return &artist, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryRepository) SaveArtist(_ context.Context, artist *models.Artist) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	stored := models.Artist{Name: artist.Name, Picture: artist.Picture, Description: artist.Description}
	if artist.ID == 0 {
		stored.ID = s.nextArtistID
		s.nextArtistID++
		stored.CreatedAt = now
	} else {
		existing, ok := s.artists[artist.ID]
		if !ok {
			return ErrNotFound
		}
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	}
	stored.UpdatedAt = now
	s.artists[stored.ID] = stored

	artist.ID = stored.ID
	artist.CreatedAt = stored.CreatedAt
	artist.UpdatedAt = stored.UpdatedAt
	return nil
}

func (s *MemoryRepository) GetGenre(_ context.Context, id uint) (*models.Genre, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	genre, ok := s.genres[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &genre, nil
}

func (s *MemoryRepository) FindGenreByDescription(_ context.Context, description string) (*models.Genre, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range sortedKeys(s.genres) {
		if genre := s.genres[id]; genre.Description == description {
			return &genre, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryRepository) ListGenres(_ context.Context) ([]models.Genre, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Genre, 0, len(s.genres))
	for _, id := range sortedKeys(s.genres) {
		out = append(out, s.genres[id])
	}
	return out, nil
}

func (s *MemoryRepository) SaveGenre(_ context.Context, genre *models.Genre) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.genres {
		if existing.Description == genre.Description && id != genre.ID {
			return ErrDuplicate
		}
	}

	now := time.Now().UTC()
	stored := models.Genre{Description: genre.Description}
	if genre.ID == 0 {
		stored.ID = s.nextGenreID
		s.nextGenreID++
		stored.CreatedAt = now
	} else {
		existing, ok := s.genres[genre.ID]
		if !ok {
			return ErrNotFound
		}
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	}
	stored.UpdatedAt = now
	s.genres[stored.ID] = stored

	genre.ID = stored.ID
	genre.CreatedAt = stored.CreatedAt
	genre.UpdatedAt = stored.UpdatedAt
	return nil
}

func (s *MemoryRepository) GetTrack(_ context.Context, id uint) (*models.Track, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.tracks[id]; !ok {
		return nil, ErrNotFound
	}
	track := s.trackWithRelationsLocked(id)
	return &track, nil
}

func (s *MemoryRepository) SaveTrack(_ context.Context, track *models.Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if track.GenreID != nil {
		if _, ok := s.genres[*track.GenreID]; !ok {
			return ErrNotFound
		}
	}

	now := time.Now().UTC()
	stored := models.Track{Title: track.Title, GenreID: copyUint(track.GenreID), LengthSeconds: copyInt(track.LengthSeconds)}
	if track.ID == 0 {
		stored.ID = s.nextTrackID
		s.nextTrackID++
		stored.CreatedAt = now
	} else {
		existing, ok := s.tracks[track.ID]
		if !ok {
			return ErrNotFound
		}
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	}
	stored.UpdatedAt = now
	s.tracks[stored.ID] = stored

	track.ID = stored.ID
	track.CreatedAt = stored.CreatedAt
	track.UpdatedAt = stored.UpdatedAt
	return nil
}

func (s *MemoryRepository) DeleteTrack(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tracks[id]; !ok {
		return ErrNotFound
	}
	delete(s.tracks, id)
	delete(s.links, id)
	return nil
}

func (s *MemoryRepository) LinkArtist(_ context.Context, trackID, artistID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tracks[trackID]; !ok {
		return ErrNotFound
	}
	if _, ok := s.artists[artistID]; !ok {
		return ErrNotFound
	}
	set, ok := s.links[trackID]
	if !ok {
		set = make(map[uint]struct{})
		s.links[trackID] = set
	}
	set[artistID] = struct{}{}
	return nil
}

func (s *MemoryRepository) UnlinkArtist(_ context.Context, trackID, artistID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if set, ok := s.links[trackID]; ok {
		delete(set, artistID)
		if len(set) == 0 {
			delete(s.links, trackID)
		}
	}
	return nil
}

func (s *MemoryRepository) ListTracksByArtist(_ context.Context, artistID uint) ([]models.Track, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tracksOfArtistLocked(artistID, true), nil
}

func (s *MemoryRepository) ListTracksByGenre(_ context.Context, genreID uint) ([]models.Track, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Track{}
	for _, id := range sortedKeys(s.tracks) {
		if gid := s.tracks[id].GenreID; gid != nil && *gid == genreID {
			out = append(out, s.trackWithRelationsLocked(id))
		}
	}
	return out, nil
}

// tracksOfArtistLocked walks the join set; withRelations also fills genre and artists.
func (s *MemoryRepository) tracksOfArtistLocked(artistID uint, withRelations bool) []models.Track {
	var out []models.Track
	for _, trackID := range sortedKeys(s.tracks) {
		if _, linked := s.links[trackID][artistID]; !linked {
			continue
		}
		if withRelations {
			out = append(out, s.trackWithRelationsLocked(trackID))
		} else {
			out = append(out, s.tracks[trackID])
		}
	}
	if out == nil && withRelations {
		out = []models.Track{}
	}
	return out
}

func (s *MemoryRepository) trackWithRelationsLocked(id uint) models.Track {
	track := s.tracks[id]
	track.GenreID = copyUint(track.GenreID)
	track.LengthSeconds = copyInt(track.LengthSeconds)
	if track.GenreID != nil {
		if genre, ok := s.genres[*track.GenreID]; ok {
			track.Genre = &genre
		}
	}
	for _, artistID := range sortedKeys(s.links[id]) {
		if artist, ok := s.artists[artistID]; ok {
			track.Artists = append(track.Artists, artist)
		}
	}
	return track
}

func sortedKeys[V any](m map[uint]V) []uint {
	keys := make([]uint, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func copyUint(v *uint) *uint {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
