package provision

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/faizan/catalog/models"
	"github.com/faizan/catalog/repository"
	"github.com/sirupsen/logrus"
)

const maxGenreLength = 100

type Result struct {
	ArtistsCreated int
	ArtistsUpdated int
	GenresCreated  int
}

// Seeder upserts artists and genres by name and description, so running it
// again with the same input changes nothing.
type Seeder struct {
	repo   repository.Gateway
	source ArtistSource
	log    logrus.FieldLogger
}

func NewSeeder(repo repository.Gateway, source ArtistSource, log logrus.FieldLogger) *Seeder {
	return &Seeder{repo: repo, source: source, log: log}
}

func (s *Seeder) Seed(ctx context.Context, artists, genres []string) (Result, error) {
	var res Result

	for _, description := range genres {
		created, err := s.ensureGenre(ctx, description)
		if err != nil {
			return res, err
		}
		if created {
			res.GenresCreated++
		}
	}

	for _, name := range artists {
		if strings.TrimSpace(name) == "" {
			continue
		}
		profile, err := s.source.Lookup(ctx, name)
		if err != nil {
			if errors.Is(err, ErrArtistNotFound) {
				s.log.WithField("artist", name).Warn("artist unknown to source, skipped")
				continue
			}
			return res, err
		}

		created, updated, err := s.ensureArtist(ctx, profile)
		if err != nil {
			return res, err
		}
		if created {
			res.ArtistsCreated++
		}
		if updated {
			res.ArtistsUpdated++
		}

		for _, description := range profile.Genres {
			created, err := s.ensureGenre(ctx, description)
			if err != nil {
				return res, err
			}
			if created {
				res.GenresCreated++
			}
		}
	}

	s.log.WithFields(logrus.Fields{
		"artists_created": res.ArtistsCreated,
		"artists_updated": res.ArtistsUpdated,
		"genres_created":  res.GenresCreated,
	}).Info("catalog provisioned")
	return res, nil
}

// ensureArtist fills a missing picture or description of an existing artist
// but never overwrites values that are already set.
func (s *Seeder) ensureArtist(ctx context.Context, p ArtistProfile) (created, updated bool, err error) {
	name := strings.TrimSpace(p.Name)
	if name == "" || utf8.RuneCountInString(name) > 255 {
		return false, false, fmt.Errorf("invalid artist name %q", p.Name)
	}

	existing, err := s.repo.FindArtistByName(ctx, name)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		artist := &models.Artist{Name: name, Picture: p.Picture, Description: p.Description}
		if err := s.repo.SaveArtist(ctx, artist); err != nil {
			return false, false, fmt.Errorf("failed to create artist %q: %w", name, err)
		}
		return true, false, nil
	case err != nil:
		return false, false, fmt.Errorf("failed to look up artist %q: %w", name, err)
	}

	changed := false
	if existing.Picture == "" && p.Picture != "" {
		existing.Picture = p.Picture
		changed = true
	}
	if existing.Description == "" && p.Description != "" {
		existing.Description = p.Description
		changed = true
	}
	if !changed {
		return false, false, nil
	}
	if err := s.repo.SaveArtist(ctx, existing); err != nil {
		return false, false, fmt.Errorf("failed to update artist %q: %w", name, err)
	}
	return false, true, nil
}

func (s *Seeder) ensureGenre(ctx context.Context, description string) (bool, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return false, nil
	}
	if utf8.RuneCountInString(description) > maxGenreLength {
		s.log.WithField("genre", description).Warn("genre description too long, skipped")
		return false, nil
	}

	_, err := s.repo.FindGenreByDescription(ctx, description)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, fmt.Errorf("failed to look up genre %q: %w", description, err)
	}
	if err := s.repo.SaveGenre(ctx, &models.Genre{Description: description}); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create genre %q: %w", description, err)
	}
	return true, nil
}
