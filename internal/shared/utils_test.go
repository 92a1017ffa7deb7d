package shared

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"disallowed characters replaced 1:1", "AC/DC: Thunder!", "AC_DC_ Thunder_"},
		{"allowed characters pass through", "My Track_01 - live", "My Track_01 - live"},
		{"surrounding whitespace trimmed", "  Hello  ", "Hello"},
		{"unicode letters kept", "Björk", "Björk"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeName(tt.input); got != tt.expected {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeNameTruncates(t *testing.T) {
	long := strings.Repeat("a", 150)
	got := SanitizeName(long)
	if len([]rune(got)) != MaxNameLength {
		t.Errorf("expected %d runes, got %d", MaxNameLength, len([]rune(got)))
	}
}

func TestSanitizeNameIdempotent(t *testing.T) {
	inputs := []string{"AC/DC: Thunder!", "plain", "  padded  ", "ünïcødé*name", strings.Repeat("x?", 80)}
	for _, input := range inputs {
		once := SanitizeName(input)
		twice := SanitizeName(once)
		if once != twice {
			t.Errorf("SanitizeName not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestRetryWithDelay(t *testing.T) {
	calls := 0
	err := RetryWithDelay(3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return os.ErrNotExist
		}
		return nil
	})
	if err != nil {
		t.Errorf("expected success on third attempt, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetryWithDelayExhausted(t *testing.T) {
	calls := 0
	err := RetryWithDelay(3, time.Millisecond, func() error {
		calls++
		return os.ErrPermission
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls != 3 {
		t.Errorf("expected exactly 3 calls, got %d", calls)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.mp3")

	if FileExists(path) {
		t.Error("file should not exist yet")
	}
	if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	if !FileExists(path) {
		t.Error("file should exist")
	}
	if FileExists(dir) {
		t.Error("directories should not count as files")
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("short", 10); got != "short" {
		t.Errorf("short strings should pass through, got %q", got)
	}
	if got := TruncateString("a very long track title", 10); got != "a very ..." {
		t.Errorf("unexpected truncation: %q", got)
	}
}

func TestWarningCollector(t *testing.T) {
	wc := NewWarningCollector(true)

	if wc.HasWarnings() {
		t.Error("new warning collector should have no warnings")
	}

	wc.AddTagParseWarning("/tmp/broken.mp3", "not an mp3")
	wc.AddTagMissingWarning("/tmp/untitled.mp3")
	wc.AddSummaryWriteWarning("/tmp/out", "permission denied")

	if !wc.HasWarnings() {
		t.Error("warning collector should have warnings after adding")
	}
	if count := wc.GetWarningCount(); count != 3 {
		t.Errorf("expected 3 warnings, got %d", count)
	}
}

func TestWarningCollectorDisabled(t *testing.T) {
	wc := NewWarningCollector(false)
	wc.AddTagMissingWarning("/tmp/untitled.mp3")
	if wc.HasWarnings() {
		t.Error("disabled collector should drop warnings")
	}
}
