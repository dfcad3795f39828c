package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/faizan/catalog/repository"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryCatalog(t *testing.T, artists int, genres ...string) (*Catalog, *repository.MemoryRepository) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	seed(t, repo, artists, genres...)
	log, _ := newTestLogger()
	return NewCatalog(repo, testTimeout, log), repo
}

func TestCreateTrack_LinksEveryArtist(t *testing.T) {
	catalog, repo := newMemoryCatalog(t, 3, "Rock")
	ctx := context.Background()

	track, err := catalog.CreateTrack(ctx, CreateTrackInput{
		Title:         "  Night Drive  ",
		GenreID:       uintPtr(1),
		LengthSeconds: intPtr(245),
		ArtistIDs:     []uint{3, 1, 3},
	})
	require.NoError(t, err)

	assert.Equal(t, "Night Drive", track.Title)
	assert.Equal(t, "Rock", track.Genre)
	assert.Equal(t, "4:05", track.FormattedLength)
	assert.Equal(t, []uint{1, 3}, track.ArtistIDs)

	for id, want := range map[uint]int{1: 1, 2: 0, 3: 1} {
		artist, err := repo.GetArtist(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, artist.TrackCount(), "artist %d", id)
	}

	tracks, err := catalog.ListTracksByArtist(ctx, 3)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, track.ID, tracks[0].ID)
}

func TestCreateTrack_ValidationOrder(t *testing.T) {
	tests := []struct {
		name string
		in   CreateTrackInput
		want string
	}{
		{
			name: "blank title beats everything",
			in:   CreateTrackInput{Title: "   "},
			want: "title required",
		},
		{
			name: "missing genre",
			in:   CreateTrackInput{Title: "Song"},
			want: "genre required",
		},
		{
			name: "nil artists",
			in:   CreateTrackInput{Title: "Song", GenreID: uintPtr(1)},
			want: "at least one artist required",
		},
		{
			name: "empty artists",
			in:   CreateTrackInput{Title: "Song", GenreID: uintPtr(99), ArtistIDs: []uint{}},
			want: "at least one artist required",
		},
		{
			name: "title too long",
			in:   CreateTrackInput{Title: strings.Repeat("a", 256), GenreID: uintPtr(1), ArtistIDs: []uint{1}},
			want: "title must not exceed 255 characters",
		},
		{
			name: "zero length",
			in:   CreateTrackInput{Title: "Song", GenreID: uintPtr(1), LengthSeconds: intPtr(0), ArtistIDs: []uint{1}},
			want: "length must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog, repo := newMemoryCatalog(t, 1, "Rock")

			_, err := catalog.CreateTrack(context.Background(), tt.in)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.want, verr.Message)
			_, err = repo.GetTrack(context.Background(), 1)
			assert.ErrorIs(t, err, repository.ErrNotFound)
		})
	}
}

func TestCreateTrack_MissingGenreReportedBeforeArtists(t *testing.T) {
	catalog, repo := newMemoryCatalog(t, 1, "Rock")

	_, err := catalog.CreateTrack(context.Background(), CreateTrackInput{
		Title:     "Song",
		GenreID:   uintPtr(42),
		ArtistIDs: []uint{7},
	})

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "genre", nf.Entity)
	assert.Equal(t, uint(42), nf.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetTrack(context.Background(), 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateTrack_ReportsFirstMissingArtist(t *testing.T) {
	catalog, repo := newMemoryCatalog(t, 2, "Jazz")

	_, err := catalog.CreateTrack(context.Background(), CreateTrackInput{
		Title:     "Song",
		GenreID:   uintPtr(1),
		ArtistIDs: []uint{1, 7, 8},
	})

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "artist", nf.Entity)
	assert.Equal(t, uint(7), nf.ID)

	artist, err := repo.GetArtist(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, artist.TrackCount())
}

func TestCreateTrack_DuplicateMissingArtistPersistsNothing(t *testing.T) {
	catalog, repo := newMemoryCatalog(t, 1, "Jazz")

	_, err := catalog.CreateTrack(context.Background(), CreateTrackInput{
		Title:     "Song",
		GenreID:   uintPtr(1),
		ArtistIDs: []uint{9, 9},
	})

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, uint(9), nf.ID)
	tracks, err := repo.ListTracksByGenre(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, tracks)
}

func TestCreateTrack_CompensatesFailedLink(t *testing.T) {
	repo := repository.NewMemoryRepository()
	seed(t, repo, 3, "Pop")
	log, hook := newTestLogger()
	catalog := NewCatalog(&faultyGateway{Gateway: repo, failLinkOn: 2}, testTimeout, log)
	ctx := context.Background()

	_, err := catalog.CreateTrack(ctx, CreateTrackInput{
		Title:     "Half Written",
		GenreID:   uintPtr(1),
		ArtistIDs: []uint{1, 2, 3},
	})

	var cerr *ConsistencyError
	require.ErrorAs(t, err, &cerr)
	assert.False(t, cerr.Irrecoverable())
	assert.ErrorIs(t, err, errLinkFailed)

	_, err = repo.GetTrack(ctx, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	artist, err := repo.GetArtist(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, artist.TrackCount())

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestCreateTrack_ReportsFailedCompensation(t *testing.T) {
	repo := repository.NewMemoryRepository()
	seed(t, repo, 3, "Pop")
	log, hook := newTestLogger()
	catalog := NewCatalog(&faultyGateway{Gateway: repo, failLinkOn: 3, failUnlink: true}, testTimeout, log)

	_, err := catalog.CreateTrack(context.Background(), CreateTrackInput{
		Title:     "Stuck",
		GenreID:   uintPtr(1),
		ArtistIDs: []uint{1, 2, 3},
	})

	var cerr *ConsistencyError
	require.ErrorAs(t, err, &cerr)
	assert.True(t, cerr.Irrecoverable())
	assert.ErrorIs(t, err, errLinkFailed)
	assert.ErrorIs(t, err, errUnlinkFailed)
	assert.Contains(t, err.Error(), "rollback failed")

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestCreateTrack_Transactional(t *testing.T) {
	repo := newSQLiteRepository(t)
	seed(t, repo, 3, "Rock", "Jazz")
	log, _ := newTestLogger()
	catalog := NewCatalog(repo, testTimeout, log)
	ctx := context.Background()

	track, err := catalog.CreateTrack(ctx, CreateTrackInput{
		Title:     "Together",
		GenreID:   uintPtr(2),
		ArtistIDs: []uint{2, 1, 2},
	})
	require.NoError(t, err)
	assert.Equal(t, "Jazz", track.Genre)
	assert.Equal(t, "0:00", track.FormattedLength)
	assert.Equal(t, []uint{1, 2}, track.ArtistIDs)

	for _, id := range []uint{1, 2} {
		tracks, err := catalog.ListTracksByArtist(ctx, id)
		require.NoError(t, err)
		require.Len(t, tracks, 1, "artist %d", id)
		assert.Equal(t, track.ID, tracks[0].ID)
	}
	artist, found, err := catalog.GetArtist(ctx, 3)
	require.NoError(t, err)
	require.True(t, found)
	assert.Zero(t, artist.TrackCount)
}

func TestCreateTrack_TransactionRollsBack(t *testing.T) {
	repo := newSQLiteRepository(t)
	seed(t, repo, 3, "Rock")
	log, _ := newTestLogger()
	catalog := NewCatalog(&faultyTxGateway{GormRepository: repo, failLinkOn: 3}, testTimeout, log)
	ctx := context.Background()

	_, err := catalog.CreateTrack(ctx, CreateTrackInput{
		Title:     "Never Stored",
		GenreID:   uintPtr(1),
		ArtistIDs: []uint{1, 2, 3},
	})

	var cerr *ConsistencyError
	require.ErrorAs(t, err, &cerr)
	assert.False(t, cerr.Irrecoverable())

	tracks, err := repo.ListTracksByGenre(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, tracks)
	for _, id := range []uint{1, 2} {
		artist, err := repo.GetArtist(ctx, id)
		require.NoError(t, err)
		assert.Zero(t, artist.TrackCount(), "artist %d", id)
	}
}

func TestCreateTrack_NotFoundInsideTransactionIsNotConsistencyError(t *testing.T) {
	repo := newSQLiteRepository(t)
	seed(t, repo, 1, "Rock")
	log, _ := newTestLogger()
	catalog := NewCatalog(repo, testTimeout, log)

	_, err := catalog.CreateTrack(context.Background(), CreateTrackInput{
		Title:     "Song",
		GenreID:   uintPtr(1),
		ArtistIDs: []uint{1, 5},
	})

	var cerr *ConsistencyError
	assert.False(t, errors.As(err, &cerr))
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, uint(5), nf.ID)
}

func TestUpdateArtist_TrimsName(t *testing.T) {
	catalog, repo := newMemoryCatalog(t, 1)
	ctx := context.Background()

	view, found, err := catalog.UpdateArtist(ctx, 1, ArtistPatch{Name: strPtr("  Jane  ")})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Jane", view.Name)

	stored, err := repo.GetArtist(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Jane", stored.Name)
	assert.Equal(t, "bio 1", stored.Description)
	assert.Equal(t, "https://img.example/1.jpg", stored.Picture)
}

func TestUpdateArtist_BlankNameKeepsStoredName(t *testing.T) {
	catalog, repo := newMemoryCatalog(t, 1)
	ctx := context.Background()

	_, found, err := catalog.UpdateArtist(ctx, 1, ArtistPatch{Name: strPtr("   "), Description: strPtr("new bio")})
	require.NoError(t, err)
	require.True(t, found)

	stored, err := repo.GetArtist(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Artist 1", stored.Name)
	assert.Equal(t, "new bio", stored.Description)
}

func TestUpdateArtist_EmptyStringsReplace(t *testing.T) {
	catalog, repo := newMemoryCatalog(t, 1)
	ctx := context.Background()

	view, found, err := catalog.UpdateArtist(ctx, 1, ArtistPatch{Description: strPtr(""), Picture: strPtr("")})
	require.NoError(t, err)
	require.True(t, found)
	assert.Empty(t, view.Description)
	assert.Empty(t, view.Photo)

	stored, err := repo.GetArtist(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Artist 1", stored.Name)
	assert.Empty(t, stored.Description)
	assert.Empty(t, stored.Picture)
}

func TestUpdateArtist_KeepsTracks(t *testing.T) {
	catalog, _ := newMemoryCatalog(t, 2, "Rock")
	ctx := context.Background()
	_, err := catalog.CreateTrack(ctx, CreateTrackInput{Title: "One", GenreID: uintPtr(1), ArtistIDs: []uint{1}})
	require.NoError(t, err)

	view, found, err := catalog.UpdateArtist(ctx, 1, ArtistPatch{Name: strPtr("Renamed")})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1, view.TrackCount)

	tracks, err := catalog.ListTracksByArtist(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, tracks, 1)
}

func TestUpdateArtist_UnknownIDWritesNothing(t *testing.T) {
	catalog, repo := newMemoryCatalog(t, 1)
	ctx := context.Background()

	_, found, err := catalog.UpdateArtist(ctx, 5, ArtistPatch{Name: strPtr("Ghost")})
	require.NoError(t, err)
	assert.False(t, found)

	ids, err := repo.ListArtistIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, ids)
	_, err = repo.FindArtistByName(ctx, "Ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateArtist_RejectsLongName(t *testing.T) {
	catalog, repo := newMemoryCatalog(t, 1)

	_, _, err := catalog.UpdateArtist(context.Background(), 1, ArtistPatch{Name: strPtr(strings.Repeat("n", 256))})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	stored, err := repo.GetArtist(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Artist 1", stored.Name)
}

func TestCatalogReads(t *testing.T) {
	catalog, _ := newMemoryCatalog(t, 2, "Rock", "Jazz")
	ctx := context.Background()
	_, err := catalog.CreateTrack(ctx, CreateTrackInput{Title: "A", GenreID: uintPtr(2), ArtistIDs: []uint{1, 2}})
	require.NoError(t, err)

	artists, err := catalog.ListArtists(ctx)
	require.NoError(t, err)
	require.Len(t, artists, 2)
	assert.Equal(t, 1, artists[0].TrackCount)
	assert.Equal(t, "Artist 2", artists[1].Name)

	genres, err := catalog.ListGenres(ctx)
	require.NoError(t, err)
	assert.Equal(t, []GenreView{{ID: 1, Description: "Rock"}, {ID: 2, Description: "Jazz"}}, genres)

	byGenre, err := catalog.ListTracksByGenre(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, byGenre, 1)

	_, err = catalog.ListTracksByGenre(ctx, 9)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)

	_, err = catalog.ListTracksByArtist(ctx, 9)
	assert.ErrorAs(t, err, &nf)

	_, err = catalog.GetTrack(ctx, 9)
	assert.ErrorAs(t, err, &nf)

	_, found, err := catalog.GetArtist(ctx, 9)
	require.NoError(t, err)
	assert.False(t, found)
}
