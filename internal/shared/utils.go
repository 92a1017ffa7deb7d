package shared

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/mattn/go-isatty"
)

// Constants
const (
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 2 * time.Second
	DefaultParallelism = 4
	MaxNameLength      = 100
)

// SanitizeName cleans a string to make it safe for use in file names and
// file-matching patterns. Letters, digits, spaces, underscores and hyphens
// pass through; every other character becomes an underscore. The result is
// trimmed of surrounding whitespace and truncated to MaxNameLength runes.
// The existence check and the post-download scan both normalize through this
// function, so the two can never disagree about which characters are legal.
func SanitizeName(name string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, name)

	mapped = strings.TrimSpace(mapped)

	runes := []rune(mapped)
	if len(runes) > MaxNameLength {
		mapped = string(runes[:MaxNameLength])
	}
	return mapped
}

// RetryWithDelay retries fn up to maxRetries times with a fixed delay between
// attempts, logging each failure. The last error is returned wrapped.
func RetryWithDelay(maxRetries int, delay time.Duration, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		log.Printf("attempt %d/%d failed: %v", attempt, maxRetries, lastErr)
		if attempt < maxRetries {
			time.Sleep(delay)
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}

// FileExists checks if a file exists at the given path
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// CreateDirIfNotExists creates a directory if it does not exist
func CreateDirIfNotExists(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// TruncateString truncates a string to the specified length, adding ellipsis if truncated.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// GetUserInput prompts the user for input with a default value
func GetUserInput(prompt, defaultValue string) string {
	if defaultValue != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, defaultValue)
	}
	ColorPrompt.Print(prompt + ": ")
	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input == "" && defaultValue != "" {
			return defaultValue
		}
		return input
	}
	return defaultValue
}

func IsTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}
