package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/faizan/catalog/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRepository implements Gateway and Transactor on a relational database.
type GormRepository struct {
	db *gorm.DB
}

var _ Gateway = (*GormRepository)(nil)
var _ Transactor = (*GormRepository)(nil)

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) WithinTransaction(ctx context.Context, fn func(Gateway) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepository{db: tx})
	})
}

func (r *GormRepository) GetArtist(ctx context.Context, id uint) (*models.Artist, error) {
	var artist models.Artist
	err := r.db.WithContext(ctx).
		Preload("Tracks", func(db *gorm.DB) *gorm.DB { return db.Order("tracks.id") }).
		First(&artist, id).Error
	if err != nil {
		return nil, lookupError("artist", err)
	}
	return &artist, nil
}

func (r *GormRepository) ListArtists(ctx context.Context) ([]models.Artist, error) {
	var artists []models.Artist
	if err := r.db.WithContext(ctx).Preload("Tracks").Order("id ASC").Find(&artists).Error; err != nil {
		return nil, fmt.Errorf("failed to list artists: %w", err)
	}
	return artists, nil
}

func (r *GormRepository) ListArtistIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.Artist{}).Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list artist ids: %w", err)
	}
	return ids, nil
}

func (r *GormRepository) FindArtistByName(ctx context.Context, name string) (*models.Artist, error) {
	var artist models.Artist
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&artist).Error; err != nil {
		return nil, lookupError("artist", err)
	}
	return &artist, nil
}

func (r *GormRepository) SaveArtist(ctx context.Context, artist *models.Artist) error {
	db := r.db.WithContext(ctx)
	if artist.ID == 0 {
		if err := db.Omit(clause.Associations).Create(artist).Error; err != nil {
			return fmt.Errorf("failed to create artist: %w", err)
		}
		return nil
	}

	result := db.Model(&models.Artist{}).Where("id = ?", artist.ID).Updates(map[string]interface{}{
		"name":        artist.Name,
		"picture":     artist.Picture,
		"description": artist.Description,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update artist: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) GetGenre(ctx context.Context, id uint) (*models.Genre, error) {
	var genre models.Genre
	if err := r.db.WithContext(ctx).First(&genre, id).Error; err != nil {
		return nil, lookupError("genre", err)
	}
	return &genre, nil
}

func (r *GormRepository) FindGenreByDescription(ctx context.Context, description string) (*models.Genre, error) {
	var genre models.Genre
	if err := r.db.WithContext(ctx).Where("description = ?", description).First(&genre).Error; err != nil {
		return nil, lookupError("genre", err)
	}
	return &genre, nil
}

func (r *GormRepository) ListGenres(ctx context.Context) ([]models.Genre, error) {
	var genres []models.Genre
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	return genres, nil
}

func (r *GormRepository) SaveGenre(ctx context.Context, genre *models.Genre) error {
	db := r.db.WithContext(ctx)
	if genre.ID == 0 {
		if err := db.Omit(clause.Associations).Create(genre).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicate
			}
			return fmt.Errorf("failed to create genre: %w", err)
		}
		return nil
	}
	result := db.Model(&models.Genre{}).Where("id = ?", genre.ID).Update("description", genre.Description)
	if result.Error != nil {
		return fmt.Errorf("failed to update genre: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) GetTrack(ctx context.Context, id uint) (*models.Track, error) {
	var track models.Track
	err := r.withTrackRelations(r.db.WithContext(ctx)).First(&track, id).Error
	if err != nil {
		return nil, lookupError("track", err)
	}
	return &track, nil
}

func (r *GormRepository) SaveTrack(ctx context.Context, track *models.Track) error {
	db := r.db.WithContext(ctx)
	if track.ID == 0 {
		if err := db.Omit(clause.Associations).Create(track).Error; err != nil {
			return fmt.Errorf("failed to create track: %w", err)
		}
		return nil
	}
	result := db.Model(&models.Track{}).Where("id = ?", track.ID).Updates(map[string]interface{}{
		"title":          track.Title,
		"genre_id":       track.GenreID,
		"length_seconds": track.LengthSeconds,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update track: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) DeleteTrack(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("track_id = ?", id).Delete(&models.ArtistTrack{}).Error; err != nil {
		return fmt.Errorf("failed to delete track links: %w", err)
	}
	result := db.Unscoped().Delete(&models.Track{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete track: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) LinkArtist(ctx context.Context, trackID, artistID uint) error {
	link := models.ArtistTrack{ArtistID: artistID, TrackID: trackID}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
	if err != nil {
		return fmt.Errorf("failed to link artist %d to track %d: %w", artistID, trackID, err)
	}
	return nil
}

func (r *GormRepository) UnlinkArtist(ctx context.Context, trackID, artistID uint) error {
	err := r.db.WithContext(ctx).
		Where("track_id = ? AND artist_id = ?", trackID, artistID).
		Delete(&models.ArtistTrack{}).Error
	if err != nil {
		return fmt.Errorf("failed to unlink artist %d from track %d: %w", artistID, trackID, err)
	}
	return nil
}

func (r *GormRepository) ListTracksByArtist(ctx context.Context, artistID uint) ([]models.Track, error) {
	var tracks []models.Track
	err := r.withTrackRelations(r.db.WithContext(ctx)).
		Joins("JOIN artist_track ON artist_track.track_id = tracks.id").
		Where("artist_track.artist_id = ?", artistID).
		Order("tracks.id ASC").
		Find(&tracks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks of artist %d: %w", artistID, err)
	}
	return tracks, nil
}

func (r *GormRepository) ListTracksByGenre(ctx context.Context, genreID uint) ([]models.Track, error) {
	var tracks []models.Track
	err := r.withTrackRelations(r.db.WithContext(ctx)).
		Where("genre_id = ?", genreID).
		Order("id ASC").
		Find(&tracks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks of genre %d: %w", genreID, err)
	}
	return tracks, nil
}

func (r *GormRepository) withTrackRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Genre").Preload("Artists", func(db *gorm.DB) *gorm.DB {
		return db.Order("artists.id")
	})
}

func lookupError(entity string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to query %s: %w", entity, err)
}
