package interfaces

import (
	"context"

	"spotify-playlist-downloader/internal/shared"
)

// SpotifyService defines the interface for the playlist collaborator
type SpotifyService interface {
	// Authenticate authenticates with the Spotify API
	Authenticate(ctx context.Context) error

	// PlaylistName retrieves the display name of a playlist
	PlaylistName(ctx context.Context, playlistRef string) (string, error)

	// PlaylistTracks retrieves the complete ordered track list of a playlist,
	// following pagination. A fetch error is distinct from an empty playlist.
	PlaylistTracks(ctx context.Context, playlistRef string) ([]shared.Track, error)
}

// DownloadService defines the interface for the run-level download flow
type DownloadService interface {
	// Run downloads a whole playlist: authenticate, fetch, orchestrate,
	// persist the results summary.
	Run(ctx context.Context, playlistRef string) error
}

// LoggerService defines the interface for logging operations
type LoggerService interface {
	// Info logs an informational message
	Info(message string, args ...interface{})

	// Warning logs a warning message
	Warning(message string, args ...interface{})

	// Error logs an error message
	Error(message string, args ...interface{})

	// Debug logs a debug message
	Debug(message string, args ...interface{})

	// Success logs a success message
	Success(message string, args ...interface{})

	// SetDebugMode enables or disables debug logging
	SetDebugMode(enabled bool)
}
