package downloader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"spotify-playlist-downloader/internal/shared"
)

// EventSink receives the two event streams a front end consumes: integer
// progress (0-100) and human-readable status lines. Events do not arrive at
// fixed intervals.
type EventSink interface {
	Progress(percent int)
	Status(message string)
}

// discardEvents is the sink used when the caller passes nil.
type discardEvents struct{}

func (discardEvents) Progress(int)   {}
func (discardEvents) Status(string) {}

// Job is the run-level context for one playlist download.
type Job struct {
	PlaylistRef string
	DestDir     string
	Quality     string
}

const resultThrottle = 500 * time.Millisecond

// Orchestrator fans a track list out over a fixed-size worker pool and
// aggregates per-track outcomes in completion order.
type Orchestrator struct {
	downloader *TrackDownloader
	workers    int
	events     EventSink
	tags       *TagQueue
	throttle   time.Duration
	stats      shared.DownloadStats
}

// NewOrchestrator creates an orchestrator. events may be nil; tags may be nil
// to skip post-processing.
func NewOrchestrator(d *TrackDownloader, workers int, events EventSink, tags *TagQueue) *Orchestrator {
	if workers <= 0 {
		workers = shared.DefaultParallelism
	}
	if events == nil {
		events = discardEvents{}
	}
	return &Orchestrator{
		downloader: d,
		workers:    workers,
		events:     events,
		tags:       tags,
		throttle:   resultThrottle,
	}
}

// Stats returns the outcome counts of the last Run.
func (o *Orchestrator) Stats() shared.DownloadStats {
	return o.stats
}

// Run downloads every track of the job, at most o.workers at a time, and
// returns the success labels and failure records. Results are processed in
// completion order, not submission order. Cancelling ctx stops dispatch and
// result processing; subprocesses already started run to completion in the
// background and their results are discarded.
func (o *Orchestrator) Run(ctx context.Context, job Job, tracks []shared.Track) ([]string, []shared.FailedTrack) {
	success := []string{}
	failed := []shared.FailedTrack{}
	o.stats = shared.DownloadStats{}

	total := len(tracks)
	if total == 0 {
		return success, failed
	}

	results := make(chan shared.DownloadOutcome, total)
	limiter := rate.NewLimiter(rate.Every(o.throttle), 1)
	// Spend the initial token so the pause applies to the first result too.
	limiter.Allow()

	go func() {
		var wg sync.WaitGroup
		sem := semaphore.NewWeighted(int64(o.workers))
		for _, track := range tracks {
			if err := sem.Acquire(ctx, 1); err != nil {
				break
			}
			wg.Add(1)
			go func(t shared.Track) {
				defer wg.Done()
				defer sem.Release(1)
				results <- o.downloader.Download(t, job.DestDir, job.Quality)
			}(track)
		}
		wg.Wait()
		close(results)
	}()

	completed := 0
	for {
		select {
		case <-ctx.Done():
			o.events.Status("❌ Download cancelled!")
			if o.tags != nil {
				o.tags.Stop()
			}
			return success, failed
		case outcome, ok := <-results:
			if !ok {
				return success, failed
			}

			switch outcome.Status {
			case shared.StatusFailed:
				failed = append(failed, shared.FailedTrack{Track: outcome.Label, Error: outcome.Error})
				o.stats.FailedCount++
			case shared.StatusAlreadyDownloaded:
				success = append(success, outcome.Label)
				o.stats.SkippedCount++
			default:
				success = append(success, outcome.Label)
				o.stats.SuccessCount++
				if o.tags != nil && outcome.Path != "" {
					o.tags.Enqueue(outcome.Path)
				}
			}

			completed++
			o.events.Status(fmt.Sprintf("✔ %s: %s", outcome.Label, outcome.Status))
			o.events.Progress(completed * 100 / total)

			// Throttle result handling so status emission and fresh
			// subprocess dispatch don't overwhelm the system.
			_ = limiter.Wait(ctx)
		}
	}
}
