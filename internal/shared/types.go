package shared

import "fmt"

// Track identifies one playable item of a playlist. Immutable once fetched.
type Track struct {
	Title  string
	Artist string
	Album  string
}

// Label returns the display label used in status events and the results file.
func (t Track) Label() string {
	return fmt.Sprintf("%s - %s", t.Title, t.Artist)
}

// OutcomeStatus is the terminal state of one download attempt chain.
type OutcomeStatus string

const (
	StatusDownloaded        OutcomeStatus = "Downloaded"
	StatusAlreadyDownloaded OutcomeStatus = "Already Downloaded"
	StatusFailed            OutcomeStatus = "Failed"
)

// DownloadOutcome is the result of attempting one track.
// Status Failed implies a non-empty Error.
type DownloadOutcome struct {
	Label  string
	Status OutcomeStatus
	Error  string
	// Path is the matched audio file on disk for Downloaded and
	// AlreadyDownloaded outcomes.
	Path string
}

// FailedTrack is one entry of the failure list in the results summary.
type FailedTrack struct {
	Track string `json:"track"`
	Error string `json:"error"`
}

// ResultsSummary is the terminal artifact of a run, persisted as
// download_results.json in the destination folder.
type ResultsSummary struct {
	SuccessfullyDownloaded []string      `json:"successfully_downloaded"`
	FailedTracks           []FailedTrack `json:"failed_tracks"`
}

// DownloadStats aggregates per-track outcomes over a run.
type DownloadStats struct {
	SuccessCount int
	SkippedCount int
	FailedCount  int
}

// ErrDownloadCancelled is returned when the user cancels a download run.
var ErrDownloadCancelled = fmt.Errorf("download cancelled by user")

// ErrNoTracks is returned when a playlist resolves to zero tracks. Distinct
// from a fetch failure, which surfaces as its own error.
var ErrNoTracks = fmt.Errorf("no tracks found in playlist")
