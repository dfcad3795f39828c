package provision

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zmb3/spotify"
	"golang.org/x/oauth2/clientcredentials"
)

var ErrArtistNotFound = errors.New("no artist found")

// SpotifySource looks artists up in the Spotify catalog with an app token.
type SpotifySource struct {
	client spotify.Client
}

func NewSpotifySource(ctx context.Context, clientID, clientSecret string) (*SpotifySource, error) {
	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotify.TokenURL,
	}
	token, err := config.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Spotify API token: %w", err)
	}
	return &SpotifySource{client: spotify.Authenticator{}.NewClient(token)}, nil
}

// Lookup takes the most popular search hit whose name matches exactly,
// falling back to the most popular hit overall.
func (s *SpotifySource) Lookup(_ context.Context, name string) (ArtistProfile, error) {
	name = strings.TrimSpace(name)
	results, err := s.client.Search(name, spotify.SearchTypeArtist)
	if err != nil {
		return ArtistProfile{}, fmt.Errorf("failed to search for artist %q: %w", name, err)
	}
	if results.Artists == nil || len(results.Artists.Artists) == 0 {
		return ArtistProfile{}, fmt.Errorf("%w: %q", ErrArtistNotFound, name)
	}
	return profileFromSpotify(name, pickArtist(name, results.Artists.Artists)), nil
}

func pickArtist(name string, artists []spotify.FullArtist) spotify.FullArtist {
	best := -1
	for i, a := range artists {
		if !strings.EqualFold(a.Name, name) {
			continue
		}
		if best < 0 || a.Popularity > artists[best].Popularity {
			best = i
		}
	}
	if best >= 0 {
		return artists[best]
	}

	best = 0
	for i, a := range artists {
		if a.Popularity > artists[best].Popularity {
			best = i
		}
	}
	return artists[best]
}

func profileFromSpotify(requested string, a spotify.FullArtist) ArtistProfile {
	profile := ArtistProfile{
		Name:   a.Name,
		Genres: a.Genres,
	}
	if profile.Name == "" {
		profile.Name = requested
	}
	if len(a.Images) > 0 {
		profile.Picture = a.Images[0].URL
	}
	if url, ok := a.ExternalURLs["spotify"]; ok {
		profile.Description = url
	}
	return profile
}
