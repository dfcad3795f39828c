// Package provision creates the artist and genre rows the catalog API itself
// never creates.
package provision

import (
	"context"
	"strings"
)

// ArtistProfile is what a source knows about an artist.
type ArtistProfile struct {
	Name        string
	Picture     string
	Description string
	Genres      []string
}

type ArtistSource interface {
	Lookup(ctx context.Context, name string) (ArtistProfile, error)
}

// StaticSource knows nothing beyond the configured name.
type StaticSource struct{}

func (StaticSource) Lookup(_ context.Context, name string) (ArtistProfile, error) {
	return ArtistProfile{Name: strings.TrimSpace(name)}, nil
}
