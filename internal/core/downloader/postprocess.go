package downloader

import (
	"sync"

	"github.com/bogem/id3v2/v2"

	"spotify-playlist-downloader/internal/shared"
)

// TagQueue is an auxiliary worker that drains completed file paths and
// inspects their ID3 tags, recording files with unreadable or incomplete
// metadata in the warning collector.
type TagQueue struct {
	jobs      chan string
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	quitOnce  sync.Once
	warnings  *shared.WarningCollector
}

// NewTagQueue starts the queue's single worker goroutine.
func NewTagQueue(warnings *shared.WarningCollector) *TagQueue {
	q := &TagQueue{
		jobs:     make(chan string, 64),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		warnings: warnings,
	}
	go q.drain()
	return q
}

// Enqueue submits a completed file path for inspection. Non-blocking when the
// queue is full; an uninspected file only costs a missing warning.
func (q *TagQueue) Enqueue(path string) {
	select {
	case q.jobs <- path:
	case <-q.quit:
	default:
	}
}

// Close drains the remaining queue and waits for the worker to finish. Used
// on the normal completion path.
func (q *TagQueue) Close() {
	q.closeOnce.Do(func() { close(q.jobs) })
	<-q.done
}

// Stop signals the worker to exit without finishing the drain. Used on the
// cancellation path; pending paths are abandoned.
func (q *TagQueue) Stop() {
	q.quitOnce.Do(func() { close(q.quit) })
	<-q.done
}

func (q *TagQueue) drain() {
	defer close(q.done)
	for {
		select {
		case <-q.quit:
			return
		case path, ok := <-q.jobs:
			if !ok {
				return
			}
			q.inspect(path)
		}
	}
}

func (q *TagQueue) inspect(path string) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		q.warnings.AddTagParseWarning(path, err.Error())
		return
	}
	defer tag.Close()

	if tag.Title() == "" || tag.Artist() == "" {
		q.warnings.AddTagMissingWarning(path)
	}
}
