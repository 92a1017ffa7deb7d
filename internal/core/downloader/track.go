package downloader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"spotify-playlist-downloader/internal/interfaces"
	"spotify-playlist-downloader/internal/shared"
)

const audioExt = ".mp3"

// maxDebugOutput caps how much tool output is forwarded to the debug log.
const maxDebugOutput = 400

// TrackDownloader downloads one track at a time through the external tool.
// It never returns an error past its own boundary; every failure is folded
// into a Failed outcome.
type TrackDownloader struct {
	runner     ToolRunner
	maxRetries int
	retryDelay time.Duration
	logger     interfaces.LoggerService
}

// NewTrackDownloader creates a track downloader with the given retry policy.
// logger receives per-attempt tool output at debug level; it may be nil.
func NewTrackDownloader(runner ToolRunner, maxRetries int, retryDelay time.Duration, logger interfaces.LoggerService) *TrackDownloader {
	if maxRetries <= 0 {
		maxRetries = shared.DefaultMaxRetries
	}
	return &TrackDownloader{
		runner:     runner,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		logger:     logger,
	}
}

// Download attempts to fetch one track into destDir at the given quality.
// Pre-existing matching files short-circuit to AlreadyDownloaded without
// spawning the tool.
func (d *TrackDownloader) Download(track shared.Track, destDir, quality string) shared.DownloadOutcome {
	label := track.Label()

	if path, ok := FindDownloadedFile(destDir, track.Title, track.Artist); ok {
		return shared.DownloadOutcome{
			Label:  label,
			Status: shared.StatusAlreadyDownloaded,
			Path:   path,
		}
	}

	query := fmt.Sprintf("%s %s %s", track.Title, track.Artist, track.Album)

	var path string
	err := shared.RetryWithDelay(d.maxRetries, d.retryDelay, func() error {
		output, err := d.runner.Run(query, destDir, quality)
		if d.logger != nil && output != "" {
			d.logger.Debug("tool output for %q: %s", label, shared.TruncateString(output, maxDebugOutput))
		}
		if err != nil {
			return err
		}
		p, ok := FindDownloadedFile(destDir, track.Title, track.Artist)
		if !ok {
			return fmt.Errorf("tool exited cleanly but no matching file appeared in %s", destDir)
		}
		path = p
		return nil
	})
	if err != nil {
		return shared.DownloadOutcome{
			Label:  label,
			Status: shared.StatusFailed,
			Error:  fmt.Sprintf("download %v", err),
		}
	}

	return shared.DownloadOutcome{
		Label:  label,
		Status: shared.StatusDownloaded,
		Path:   path,
	}
}

// FindDownloadedFile scans dir for an audio file whose sanitized name
// contains both the sanitized track and artist tokens. Filenames and tokens
// are normalized through the same sanitizer, so the check agrees with
// whatever legal-character set was used to write the file.
func FindDownloadedFile(dir, title, artist string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	titleToken := shared.SanitizeName(title)
	artistToken := shared.SanitizeName(artist)
	if titleToken == "" || artistToken == "" {
		return "", false
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, audioExt) {
			continue
		}
		normalized := shared.SanitizeName(strings.TrimSuffix(name, audioExt))
		if strings.Contains(normalized, titleToken) && strings.Contains(normalized, artistToken) {
			return filepath.Join(dir, name), true
		}
	}
	return "", false
}
