package downloader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"spotify-playlist-downloader/internal/shared"
)

// fakeRunner scripts tool invocations for tests. Each call increments calls;
// script decides the result and may drop files into the output directory.
type fakeRunner struct {
	mu     sync.Mutex
	calls  int
	script func(call int, query, outputDir, bitrate string) (string, error)
}

func (f *fakeRunner) Run(query, outputDir, bitrate string) (string, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()
	if f.script == nil {
		return "", nil
	}
	return f.script(call, query, outputDir, bitrate)
}

func (f *fakeRunner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func writeAudioFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

var testTrack = shared.Track{Title: "Song A", Artist: "ArtistX", Album: "AlbumY"}

func TestDownloadAlreadyDownloaded(t *testing.T) {
	dir := t.TempDir()
	want := writeAudioFile(t, dir, "Song A - ArtistX.mp3")

	runner := &fakeRunner{}
	d := NewTrackDownloader(runner, 3, time.Millisecond, nil)

	for i := 0; i < 2; i++ {
		outcome := d.Download(testTrack, dir, "320k")
		if outcome.Status != shared.StatusAlreadyDownloaded {
			t.Fatalf("call %d: expected AlreadyDownloaded, got %s", i+1, outcome.Status)
		}
		if outcome.Path != want {
			t.Errorf("call %d: expected path %s, got %s", i+1, want, outcome.Path)
		}
	}
	if runner.callCount() != 0 {
		t.Errorf("expected zero tool invocations, got %d", runner.callCount())
	}
}

func TestDownloadSucceedsOnThirdAttempt(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{
		script: func(call int, query, outputDir, bitrate string) (string, error) {
			if call < 3 {
				return "boom", fmt.Errorf("spotdl failed: exit status 1")
			}
			writeAudioFile(t, outputDir, "Song A - ArtistX.mp3")
			return "", nil
		},
	}

	d := NewTrackDownloader(runner, 3, time.Millisecond, nil)
	outcome := d.Download(testTrack, dir, "320k")

	if outcome.Status != shared.StatusDownloaded {
		t.Fatalf("expected Downloaded, got %s (%s)", outcome.Status, outcome.Error)
	}
	if runner.callCount() != 3 {
		t.Errorf("expected exactly 3 tool invocations, got %d", runner.callCount())
	}
	if outcome.Label != "Song A - ArtistX" {
		t.Errorf("unexpected label %q", outcome.Label)
	}
}

func TestDownloadFailsAfterMaxRetries(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{
		script: func(call int, query, outputDir, bitrate string) (string, error) {
			return "", fmt.Errorf("spotdl failed: exit status 1: LookupError: no results found")
		},
	}

	d := NewTrackDownloader(runner, 3, time.Millisecond, nil)
	outcome := d.Download(testTrack, dir, "320k")

	if outcome.Status != shared.StatusFailed {
		t.Fatalf("expected Failed, got %s", outcome.Status)
	}
	if runner.callCount() != 3 {
		t.Errorf("expected exactly 3 tool invocations, got %d", runner.callCount())
	}
	if outcome.Error == "" {
		t.Fatal("Failed outcome must carry an error message")
	}
	if !strings.Contains(outcome.Error, "no results found") {
		t.Errorf("error should embed the last tool diagnostic, got %q", outcome.Error)
	}
	if !strings.Contains(outcome.Error, "failed after 3 attempts") {
		t.Errorf("error should state the attempt count, got %q", outcome.Error)
	}
}

// captureLogger records debug lines for assertions; the other levels are
// discarded.
type captureLogger struct {
	mu     sync.Mutex
	debugs []string
}

func (l *captureLogger) Info(message string, args ...interface{})    {}
func (l *captureLogger) Warning(message string, args ...interface{}) {}
func (l *captureLogger) Error(message string, args ...interface{})   {}
func (l *captureLogger) Success(message string, args ...interface{}) {}
func (l *captureLogger) SetDebugMode(enabled bool)                   {}

func (l *captureLogger) Debug(message string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debugs = append(l.debugs, fmt.Sprintf(message, args...))
}

func (l *captureLogger) debugLines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.debugs...)
}

func TestDownloadEmitsToolOutputAtDebug(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{
		script: func(call int, query, outputDir, bitrate string) (string, error) {
			if call < 2 {
				return "Processing query: Song A\nLookupError: no results found", fmt.Errorf("spotdl failed: exit status 1")
			}
			writeAudioFile(t, outputDir, "Song A - ArtistX.mp3")
			return "Downloaded 1 song", nil
		},
	}

	logger := &captureLogger{}
	d := NewTrackDownloader(runner, 3, time.Millisecond, logger)
	outcome := d.Download(testTrack, dir, "320k")

	if outcome.Status != shared.StatusDownloaded {
		t.Fatalf("expected Downloaded, got %s (%s)", outcome.Status, outcome.Error)
	}
	lines := logger.debugLines()
	if len(lines) != 2 {
		t.Fatalf("expected one debug line per attempt with output, got %d: %v", len(lines), lines)
	}
	if !strings.Contains(lines[0], "no results found") {
		t.Errorf("debug line should carry the tool output, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "Downloaded 1 song") {
		t.Errorf("debug line should carry the tool output, got %q", lines[1])
	}
}

func TestDownloadCleanExitWithoutFileIsFailure(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{
		script: func(call int, query, outputDir, bitrate string) (string, error) {
			return "", nil // exit 0 but never writes a file
		},
	}

	d := NewTrackDownloader(runner, 2, time.Millisecond, nil)
	outcome := d.Download(testTrack, dir, "320k")

	if outcome.Status != shared.StatusFailed {
		t.Fatalf("expected Failed, got %s", outcome.Status)
	}
	if runner.callCount() != 2 {
		t.Errorf("expected 2 invocations, got %d", runner.callCount())
	}
	if !strings.Contains(outcome.Error, "no matching file") {
		t.Errorf("error should mention the missing file, got %q", outcome.Error)
	}
}

func TestDownloadQueryIncludesAlbum(t *testing.T) {
	dir := t.TempDir()
	var gotQuery string
	runner := &fakeRunner{
		script: func(call int, query, outputDir, bitrate string) (string, error) {
			gotQuery = query
			writeAudioFile(t, outputDir, "Song A - ArtistX.mp3")
			return "", nil
		},
	}

	NewTrackDownloader(runner, 1, 0, nil).Download(testTrack, dir, "192k")

	if gotQuery != "Song A ArtistX AlbumY" {
		t.Errorf("unexpected search query %q", gotQuery)
	}
}

func TestFindDownloadedFile(t *testing.T) {
	dir := t.TempDir()

	if _, ok := FindDownloadedFile(dir, "Song A", "ArtistX"); ok {
		t.Error("empty directory should not match")
	}

	writeAudioFile(t, dir, "Other Song - Somebody.mp3")
	writeAudioFile(t, dir, "notes.txt")
	if _, ok := FindDownloadedFile(dir, "Song A", "ArtistX"); ok {
		t.Error("unrelated files should not match")
	}

	want := writeAudioFile(t, dir, "01 Song A - ArtistX (Official).mp3")
	got, ok := FindDownloadedFile(dir, "Song A", "ArtistX")
	if !ok {
		t.Fatal("expected a match")
	}
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestFindDownloadedFileSanitizedAgreement(t *testing.T) {
	dir := t.TempDir()
	// The tool writes filenames with the raw punctuation; the existence check
	// matches on sanitized tokens. Both sides normalize through the same
	// sanitizer, so they must agree.
	writeAudioFile(t, dir, "AC_DC: Thunder! - AC_DC.mp3")
	if _, ok := FindDownloadedFile(dir, "AC/DC: Thunder!", "AC/DC"); !ok {
		t.Error("sanitized matching should find files written with raw names")
	}
}

func TestFindDownloadedFileMissingDir(t *testing.T) {
	if _, ok := FindDownloadedFile("/nonexistent/dir", "Song A", "ArtistX"); ok {
		t.Error("missing directory should report no match, not panic")
	}
}
