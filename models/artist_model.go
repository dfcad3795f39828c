package models

import "gorm.io/gorm"

type Artist struct {
	gorm.Model
	Name        string `json:"name" gorm:"size:255;not null;index"`
	Picture     string `json:"photo" gorm:"type:text"`
	Description string `json:"description" gorm:"type:text"`

	// Tracks is only populated by fetches that explicitly load it.
	Tracks []Track `json:"tracks,omitempty" gorm:"many2many:artist_track;"`
}

// TrackCount is derived from the loaded relation; an unloaded relation counts as zero.
func (a *Artist) TrackCount() int {
	if a == nil {
		return 0
	}
	return len(a.Tracks)
}
