package spotify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"spotify-playlist-downloader/internal/shared"
)

// Client holds the spotify client and the credentials used to build it
type Client struct {
	client *spotify.Client
	ID     string
	Secret string
}

// NewClient creates a new spotify client
func NewClient(id, secret string) *Client {
	return &Client{
		ID:     id,
		Secret: secret,
	}
}

// Authenticate authenticates the client with the spotify api using the
// client-credentials flow.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.ID == "" || c.Secret == "" {
		return fmt.Errorf("spotify client_id or client_secret is missing")
	}

	config := &clientcredentials.Config{
		ClientID:     c.ID,
		ClientSecret: c.Secret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := config.Token(ctx)
	if err != nil {
		return fmt.Errorf("spotify authentication failed: %w", err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	c.client = spotify.New(httpClient)
	return nil
}

// PlaylistName returns the display name of a playlist.
func (c *Client) PlaylistName(ctx context.Context, playlistRef string) (string, error) {
	id, err := ParsePlaylistID(playlistRef)
	if err != nil {
		return "", err
	}

	playlist, err := c.client.GetPlaylist(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to get playlist metadata: %w", err)
	}
	return playlist.Name, nil
}

// PlaylistTracks fetches every track of a playlist, following pagination
// until exhausted. Output order equals playlist order. A fetch error returns
// a non-nil error; an empty playlist returns an empty slice and nil error.
func (c *Client) PlaylistTracks(ctx context.Context, playlistRef string) ([]shared.Track, error) {
	id, err := ParsePlaylistID(playlistRef)
	if err != nil {
		return nil, err
	}

	page, err := c.client.GetPlaylistItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist items: %w", err)
	}

	var tracks []shared.Track
	for {
		for _, item := range page.Items {
			// Episodes and local files have no full track record; skip them.
			if item.Track.Track == nil {
				continue
			}
			full := item.Track.Track
			track := shared.Track{
				Title: full.Name,
				Album: full.Album.Name,
			}
			if len(full.Artists) > 0 {
				track.Artist = full.Artists[0].Name
			}
			tracks = append(tracks, track)
		}

		err = c.client.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch next playlist page: %w", err)
		}
	}

	return tracks, nil
}

// ParsePlaylistID extracts the playlist ID from a share URL, a spotify URI,
// or a bare ID.
func ParsePlaylistID(ref string) (spotify.ID, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty playlist reference")
	}

	if strings.HasPrefix(ref, "spotify:") {
		parts := strings.Split(ref, ":")
		if len(parts) != 3 || parts[1] != "playlist" || parts[2] == "" {
			return "", fmt.Errorf("invalid playlist URI: %s", ref)
		}
		return spotify.ID(parts[2]), nil
	}

	if strings.Contains(ref, "/") {
		parts := strings.Split(ref, "/")
		for i, part := range parts {
			if part == "playlist" && i+1 < len(parts) {
				id := strings.SplitN(parts[i+1], "?", 2)[0]
				if id == "" {
					return "", fmt.Errorf("invalid playlist URL: %s", ref)
				}
				return spotify.ID(id), nil
			}
		}
		return "", fmt.Errorf("invalid playlist URL: %s", ref)
	}

	return spotify.ID(ref), nil
}
