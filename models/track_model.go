package models

import "gorm.io/gorm"

// Track is the authoritative side of the artist relation: the artist_track
// join table is written through it and read back from either side.
type Track struct {
	gorm.Model
	Title         string   `json:"title" gorm:"size:255;not null"`
	GenreID       *uint    `json:"genreId" gorm:"index"`
	Genre         *Genre   `json:"genre,omitempty"`
	LengthSeconds *int     `json:"lengthSeconds"`
	Artists       []Artist `json:"artists,omitempty" gorm:"many2many:artist_track;"`
}

// ArtistTrack is one row of the artist_track join table.
type ArtistTrack struct {
	ArtistID uint `gorm:"primaryKey"`
	TrackID  uint `gorm:"primaryKey"`
}

func (ArtistTrack) TableName() string {
	return "artist_track"
}
