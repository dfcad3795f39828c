package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/faizan/catalog/repository"
	"github.com/sirupsen/logrus"
)

const secondsPerDay = 24 * 60 * 60

// FeaturedSelector picks the artist of the day. The pick is a pure function of
// the calendar date and the ascending artist id list, so nothing is stored and
// concurrent callers need no coordination.
type FeaturedSelector struct {
	repo    repository.Gateway
	timeout time.Duration
	loc     *time.Location
	now     func() time.Time
	log     logrus.FieldLogger
}

func NewFeaturedSelector(repo repository.Gateway, timeout time.Duration, loc *time.Location, log logrus.FieldLogger) *FeaturedSelector {
	if loc == nil {
		loc = time.Local
	}
	return &FeaturedSelector{
		repo:    repo,
		timeout: timeout,
		loc:     loc,
		now:     time.Now,
		log:     log,
	}
}

// Featured returns the artist of the current day in the selector's time zone.
func (s *FeaturedSelector) Featured(ctx context.Context) (ArtistView, error) {
	return s.FeaturedOn(ctx, s.now().In(s.loc))
}

// FeaturedOn returns the artist of the calendar day of day. Only the date
// fields of day are used.
func (s *FeaturedSelector) FeaturedOn(ctx context.Context, day time.Time) (ArtistView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ids, err := s.repo.ListArtistIDs(ctx)
	if err != nil {
		return ArtistView{}, fmt.Errorf("failed to load artist ids: %w", err)
	}
	if len(ids) == 0 {
		return ArtistView{}, ErrEmptyPopulation
	}

	seed := EpochDay(day)
	id := ids[PickIndex(seed, len(ids))]

	artist, err := s.repo.GetArtist(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		// removed between the id scan and the load
		return ArtistView{}, &NotFoundError{Entity: "artist", ID: id}
	}
	if err != nil {
		return ArtistView{}, fmt.Errorf("failed to load featured artist %d: %w", id, err)
	}

	s.log.WithFields(logrus.Fields{
		"epoch_day":  seed,
		"population": len(ids),
		"artist_id":  id,
	}).Debug("featured artist selected")
	return NewArtistView(artist), nil
}

// EpochDay counts calendar days from 1970-01-01 to the date of t, negative
// before the epoch. The clock time and zone offset of t are ignored.
func EpochDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay
}

// PickIndex draws one index in [0, n) from a java.util.Random seeded with seed.
func PickIndex(seed int64, n int) int {
	if n <= 0 || n > math.MaxInt32 {
		panic(fmt.Sprintf("featured: population %d out of range", n))
	}
	return int(newJavaRandom(seed).nextInt(int32(n)))
}
