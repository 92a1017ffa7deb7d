package downloader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"spotify-playlist-downloader/internal/shared"
)

// ResultsFileName is the summary artifact written to the destination folder.
const ResultsFileName = "download_results.json"

// WriteResults persists the run summary to download_results.json in destDir.
// Field order is deterministic and non-ASCII characters are written literally.
// The caller treats a write failure as non-fatal (log only).
func WriteResults(destDir string, success []string, failed []shared.FailedTrack) error {
	if success == nil {
		success = []string{}
	}
	if failed == nil {
		failed = []shared.FailedTrack{}
	}

	summary := shared.ResultsSummary{
		SuccessfullyDownloaded: success,
		FailedTracks:           failed,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("failed to marshal download results: %w", err)
	}

	path := filepath.Join(destDir, ResultsFileName)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write download results: %w", err)
	}
	return nil
}
