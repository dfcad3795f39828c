package service

import (
	"fmt"

	"github.com/faizan/catalog/models"
)

// UnknownGenre is shown for tracks without a genre.
const UnknownGenre = "Unknown"

type ArtistView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Photo       string `json:"photo"`
	Description string `json:"description"`
	TrackCount  int    `json:"trackCount"`
}

type TrackView struct {
	ID              uint   `json:"id"`
	Title           string `json:"title"`
	Genre           string `json:"genre"`
	GenreID         *uint  `json:"genreId,omitempty"`
	LengthSeconds   *int   `json:"lengthSeconds"`
	FormattedLength string `json:"formattedLength"`
	ArtistIDs       []uint `json:"artistIds"`
}

type GenreView struct {
	ID          uint   `json:"id"`
	Description string `json:"description"`
}

func NewArtistView(a *models.Artist) ArtistView {
	return ArtistView{
		ID:          a.ID,
		Name:        a.Name,
		Photo:       a.Picture,
		Description: a.Description,
		TrackCount:  a.TrackCount(),
	}
}

func NewTrackView(t *models.Track) TrackView {
	view := TrackView{
		ID:              t.ID,
		Title:           t.Title,
		Genre:           UnknownGenre,
		GenreID:         t.GenreID,
		LengthSeconds:   t.LengthSeconds,
		FormattedLength: FormatLength(t.LengthSeconds),
		ArtistIDs:       make([]uint, 0, len(t.Artists)),
	}
	if t.Genre != nil {
		view.Genre = t.Genre.Description
	}
	for _, a := range t.Artists {
		view.ArtistIDs = append(view.ArtistIDs, a.ID)
	}
	return view
}

func NewGenreView(g *models.Genre) GenreView {
	return GenreView{ID: g.ID, Description: g.Description}
}

// FormatLength renders seconds as M:SS; minutes are not wrapped into hours.
func FormatLength(seconds *int) string {
	if seconds == nil {
		return "0:00"
	}
	s := *seconds
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

func artistViews(artists []models.Artist) []ArtistView {
	out := make([]ArtistView, 0, len(artists))
	for i := range artists {
		out = append(out, NewArtistView(&artists[i]))
	}
	return out
}

func trackViews(tracks []models.Track) []TrackView {
	out := make([]TrackView, 0, len(tracks))
	for i := range tracks {
		out = append(out, NewTrackView(&tracks[i]))
	}
	return out
}
