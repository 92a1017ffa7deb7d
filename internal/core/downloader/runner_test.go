package downloader

import (
	"reflect"
	"testing"
)

func TestBuildToolArgs(t *testing.T) {
	got := buildToolArgs("Song A ArtistX AlbumY", "/tmp/music/Playlist", "320k")
	want := []string{
		"download", "Song A ArtistX AlbumY",
		"--output", "/tmp/music/Playlist",
		"--bitrate", "320k",
		"--preload",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("buildToolArgs = %v, want %v", got, want)
	}
}

func TestLastDiagnosticLine(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{"multi-line", "Processing query\nSearching...\nLookupError: no results found\n", "LookupError: no results found"},
		{"trailing blank lines", "error: something broke\n\n\n", "error: something broke"},
		{"empty output", "", "no output"},
		{"whitespace only", "  \n \n", "no output"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lastDiagnosticLine([]byte(tt.output)); got != tt.want {
				t.Errorf("lastDiagnosticLine(%q) = %q, want %q", tt.output, got, tt.want)
			}
		})
	}
}
