package models

import "gorm.io/gorm"

type Genre struct {
	gorm.Model
	Description string  `json:"description" gorm:"size:100;not null;uniqueIndex"`
	Tracks      []Track `json:"-"`
}

// All returns the models managed by AutoMigrate, in dependency order.
func All() []interface{} {
	return []interface{}{&Genre{}, &Artist{}, &Track{}}
}
