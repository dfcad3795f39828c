package provision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zmb3/spotify"
)

func fullArtist(name string, popularity int) spotify.FullArtist {
	return spotify.FullArtist{
		SimpleArtist: spotify.SimpleArtist{Name: name},
		Popularity:   popularity,
	}
}

func TestPickArtist(t *testing.T) {
	hits := []spotify.FullArtist{
		fullArtist("Queen Latifah", 80),
		fullArtist("queen", 40),
		fullArtist("Queen", 90),
	}
	assert.Equal(t, 90, pickArtist("Queen", hits).Popularity)

	tribute := []spotify.FullArtist{
		fullArtist("Queen Tribute Band", 10),
		fullArtist("Queens of the Stone Age", 70),
	}
	assert.Equal(t, "Queens of the Stone Age", pickArtist("Queen", tribute).Name)
}

func TestProfileFromSpotify(t *testing.T) {
	a := fullArtist("Radiohead", 85)
	a.Genres = []string{"alternative rock", "art rock"}
	a.Images = []spotify.Image{{URL: "https://i.scdn.co/large.jpg"}, {URL: "https://i.scdn.co/small.jpg"}}
	a.ExternalURLs = map[string]string{"spotify": "https://open.spotify.com/artist/4Z8W4fKeB5YxbusRsdQVPb"}

	p := profileFromSpotify("radiohead", a)

	assert.Equal(t, "Radiohead", p.Name)
	assert.Equal(t, "https://i.scdn.co/large.jpg", p.Picture)
	assert.Equal(t, "https://open.spotify.com/artist/4Z8W4fKeB5YxbusRsdQVPb", p.Description)
	assert.Equal(t, []string{"alternative rock", "art rock"}, p.Genres)

	bare := profileFromSpotify("Someone", spotify.FullArtist{})
	assert.Equal(t, ArtistProfile{Name: "Someone"}, bare)
}
