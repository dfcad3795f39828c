// Package repository holds the storage gateway for artists, tracks and genres
// and its gorm and in-memory implementations.
package repository

import (
	"context"
	"errors"

	"github.com/faizan/catalog/models"
)

// ErrNotFound is returned by every lookup whose id or key matches no row.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a write violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")

// Gateway is the storage contract of the catalog. The artist_track join is the
// only stored form of the artist/track relation; artist-side track lists are
// computed when an operation documents that it loads them.
type Gateway interface {
	// GetArtist loads the artist together with its tracks.
	GetArtist(ctx context.Context, id uint) (*models.Artist, error)
	// ListArtists loads every artist with its tracks, ascending by id.
	ListArtists(ctx context.Context) ([]models.Artist, error)
	// ListArtistIDs returns all artist ids in ascending order.
	ListArtistIDs(ctx context.Context) ([]uint, error)
	FindArtistByName(ctx context.Context, name string) (*models.Artist, error)
	// SaveArtist inserts a new artist (zero ID) or overwrites name, picture and
	// description of an existing one. The track relation is never written.
	SaveArtist(ctx context.Context, artist *models.Artist) error

	GetGenre(ctx context.Context, id uint) (*models.Genre, error)
	FindGenreByDescription(ctx context.Context, description string) (*models.Genre, error)
	ListGenres(ctx context.Context) ([]models.Genre, error)
	SaveGenre(ctx context.Context, genre *models.Genre) error

	// GetTrack loads the track with its genre and artists.
	GetTrack(ctx context.Context, id uint) (*models.Track, error)
	// SaveTrack writes the scalar columns and genre reference only.
	SaveTrack(ctx context.Context, track *models.Track) error
	// DeleteTrack removes the track row and every join row pointing at it.
	DeleteTrack(ctx context.Context, id uint) error
	// LinkArtist adds one join row. Linking an existing pair is a no-op.
	LinkArtist(ctx context.Context, trackID, artistID uint) error
	UnlinkArtist(ctx context.Context, trackID, artistID uint) error
	// ListTracksByArtist and ListTracksByGenre load genre and artists of each track.
	ListTracksByArtist(ctx context.Context, artistID uint) ([]models.Track, error)
	ListTracksByGenre(ctx context.Context, genreID uint) ([]models.Track, error)
}

// Transactor is implemented by gateways that can run several writes atomically.
// The gateway handed to fn is bound to the transaction; fn returning an error
// rolls everything back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(Gateway) error) error
}
