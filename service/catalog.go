package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/faizan/catalog/models"
	"github.com/faizan/catalog/repository"
	"github.com/sirupsen/logrus"
)

const (
	maxTitleLength      = 255
	maxArtistNameLength = 255
)

// CreateTrackInput carries a new track. GenreID and LengthSeconds are optional
// on the wire, which is why they are pointers.
type CreateTrackInput struct {
	Title         string
	GenreID       *uint
	LengthSeconds *int
	ArtistIDs     []uint
}

// ArtistPatch is a partial artist update. A nil field is left unchanged; a
// non-nil Description or Picture replaces the stored value, even when empty.
type ArtistPatch struct {
	Name        *string
	Description *string
	Picture     *string
}

// Catalog owns track creation, artist updates and the catalog read views.
type Catalog struct {
	repo    repository.Gateway
	timeout time.Duration
	log     logrus.FieldLogger
}

func NewCatalog(repo repository.Gateway, timeout time.Duration, log logrus.FieldLogger) *Catalog {
	return &Catalog{
		repo:    repo,
		timeout: timeout,
		log:     log,
	}
}

// CreateTrack validates in, then stores the track and links it to every
// distinct artist as one atomic unit. When the gateway offers transactions
// the whole operation runs in one; otherwise each completed write is undone on
// failure and a failed undo is reported as an irrecoverable ConsistencyError.
func (c *Catalog) CreateTrack(ctx context.Context, in CreateTrackInput) (TrackView, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	title, err := validateCreateTrack(in)
	if err != nil {
		return TrackView{}, err
	}
	artistIDs := distinctIDs(in.ArtistIDs)
	track := &models.Track{
		Title:         title,
		GenreID:       in.GenreID,
		LengthSeconds: in.LengthSeconds,
	}

	var created *models.Track
	if tx, ok := c.repo.(repository.Transactor); ok {
		created, err = c.createInTransaction(ctx, tx, track, artistIDs)
	} else {
		created, err = c.createCompensated(ctx, track, artistIDs)
	}
	if err != nil {
		return TrackView{}, err
	}

	c.log.WithFields(logrus.Fields{
		"track_id":   created.ID,
		"genre_id":   *in.GenreID,
		"artist_ids": artistIDs,
	}).Info("track created")
	return NewTrackView(created), nil
}

func (c *Catalog) createInTransaction(ctx context.Context, tx repository.Transactor, track *models.Track, artistIDs []uint) (*models.Track, error) {
	var (
		created *models.Track
		writing bool
	)
	err := tx.WithinTransaction(ctx, func(gw repository.Gateway) error {
		if err := resolveTrackRefs(ctx, gw, *track.GenreID, artistIDs); err != nil {
			return err
		}
		writing = true
		if err := writeTrack(ctx, gw, track, artistIDs, nil); err != nil {
			return err
		}
		var err error
		created, err = gw.GetTrack(ctx, track.ID)
		return err
	})
	if err != nil {
		if writing {
			return nil, &ConsistencyError{Op: "create track", Err: err}
		}
		return nil, err
	}
	return created, nil
}

func (c *Catalog) createCompensated(ctx context.Context, track *models.Track, artistIDs []uint) (*models.Track, error) {
	if err := resolveTrackRefs(ctx, c.repo, *track.GenreID, artistIDs); err != nil {
		return nil, err
	}

	undo := &journal{}
	err := writeTrack(ctx, c.repo, track, artistIDs, undo)
	if err == nil {
		var created *models.Track
		if created, err = c.repo.GetTrack(ctx, track.ID); err == nil {
			return created, nil
		}
	}

	cerr := &ConsistencyError{Op: "create track", Err: err}
	// the undo must run even when the request context is what failed
	if rbErr := undo.rollback(context.WithoutCancel(ctx)); rbErr != nil {
		cerr.RollbackErr = rbErr
		c.log.WithError(cerr).WithField("track_id", track.ID).Error("track creation left partial writes behind")
	} else {
		c.log.WithError(err).WithField("track_id", track.ID).Warn("track creation rolled back")
	}
	return nil, cerr
}

// resolveTrackRefs checks the genre, then every artist in order, stopping at
// the first missing one.
func resolveTrackRefs(ctx context.Context, gw repository.Gateway, genreID uint, artistIDs []uint) error {
	if _, err := gw.GetGenre(ctx, genreID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Entity: "genre", ID: genreID}
		}
		return fmt.Errorf("failed to load genre %d: %w", genreID, err)
	}
	for _, id := range artistIDs {
		if _, err := gw.GetArtist(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return &NotFoundError{Entity: "artist", ID: id}
			}
			return fmt.Errorf("failed to load artist %d: %w", id, err)
		}
	}
	return nil
}

// writeTrack inserts the track and one join row per artist. Each completed
// write is recorded in undo when undo is non-nil.
func writeTrack(ctx context.Context, gw repository.Gateway, track *models.Track, artistIDs []uint, undo *journal) error {
	if err := gw.SaveTrack(ctx, track); err != nil {
		return fmt.Errorf("save track: %w", err)
	}
	trackID := track.ID
	undo.record(func(ctx context.Context) error {
		return gw.DeleteTrack(ctx, trackID)
	})

	for _, artistID := range artistIDs {
		if err := gw.LinkArtist(ctx, trackID, artistID); err != nil {
			return fmt.Errorf("link artist %d: %w", artistID, err)
		}
		artistID := artistID
		undo.record(func(ctx context.Context) error {
			return gw.UnlinkArtist(ctx, trackID, artistID)
		})
	}
	return nil
}

func validateCreateTrack(in CreateTrackInput) (string, error) {
	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		return "", invalid("title required")
	case in.GenreID == nil:
		return "", invalid("genre required")
	case len(in.ArtistIDs) == 0:
		return "", invalid("at least one artist required")
	case utf8.RuneCountInString(title) > maxTitleLength:
		return "", invalid(fmt.Sprintf("title must not exceed %d characters", maxTitleLength))
	case in.LengthSeconds != nil && *in.LengthSeconds <= 0:
		return "", invalid("length must be positive")
	}
	return title, nil
}

// distinctIDs drops repeated ids and keeps first-seen order.
func distinctIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// UpdateArtist applies patch to the artist. The bool is false, with no write,
// when the artist does not exist.
func (c *Catalog) UpdateArtist(ctx context.Context, id uint, patch ArtistPatch) (ArtistView, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	artist, err := c.repo.GetArtist(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ArtistView{}, false, nil
	}
	if err != nil {
		return ArtistView{}, false, fmt.Errorf("failed to load artist %d: %w", id, err)
	}

	if patch.Name != nil {
		if name := strings.TrimSpace(*patch.Name); name != "" {
			if utf8.RuneCountInString(name) > maxArtistNameLength {
				return ArtistView{}, true, invalid(fmt.Sprintf("name must not exceed %d characters", maxArtistNameLength))
			}
			artist.Name = name
		}
	}
	if patch.Description != nil {
		artist.Description = *patch.Description
	}
	if patch.Picture != nil {
		artist.Picture = *patch.Picture
	}

	if err := c.repo.SaveArtist(ctx, artist); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ArtistView{}, false, nil
		}
		return ArtistView{}, true, fmt.Errorf("failed to save artist %d: %w", id, err)
	}
	return NewArtistView(artist), true, nil
}

func (c *Catalog) ListArtists(ctx context.Context) ([]ArtistView, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	artists, err := c.repo.ListArtists(ctx)
	if err != nil {
		return nil, err
	}
	return artistViews(artists), nil
}

// GetArtist returns false when no artist has the id.
func (c *Catalog) GetArtist(ctx context.Context, id uint) (ArtistView, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	artist, err := c.repo.GetArtist(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ArtistView{}, false, nil
	}
	if err != nil {
		return ArtistView{}, false, err
	}
	return NewArtistView(artist), true, nil
}

func (c *Catalog) ListTracksByArtist(ctx context.Context, artistID uint) ([]TrackView, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := c.repo.GetArtist(ctx, artistID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "artist", ID: artistID}
		}
		return nil, err
	}
	tracks, err := c.repo.ListTracksByArtist(ctx, artistID)
	if err != nil {
		return nil, err
	}
	return trackViews(tracks), nil
}

func (c *Catalog) ListTracksByGenre(ctx context.Context, genreID uint) ([]TrackView, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := c.repo.GetGenre(ctx, genreID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "genre", ID: genreID}
		}
		return nil, err
	}
	tracks, err := c.repo.ListTracksByGenre(ctx, genreID)
	if err != nil {
		return nil, err
	}
	return trackViews(tracks), nil
}

func (c *Catalog) GetTrack(ctx context.Context, id uint) (TrackView, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	track, err := c.repo.GetTrack(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return TrackView{}, &NotFoundError{Entity: "track", ID: id}
	}
	if err != nil {
		return TrackView{}, err
	}
	return NewTrackView(track), nil
}

func (c *Catalog) ListGenres(ctx context.Context) ([]GenreView, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	genres, err := c.repo.ListGenres(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]GenreView, 0, len(genres))
	for i := range genres {
		out = append(out, NewGenreView(&genres[i]))
	}
	return out, nil
}
