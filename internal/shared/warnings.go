package shared

import (
	"fmt"
	"sync"
)

// WarningType represents different types of warnings
type WarningType int

const (
	TagParseWarning WarningType = iota
	TagMissingWarning
	SummaryWriteWarning
)

// Warning represents a single warning with context
type Warning struct {
	Type    WarningType
	Message string
	Context string // track/file context
	Details string // additional details like an error message
}

// WarningCollector collects warnings during a download run. Safe for
// concurrent use; the tag queue worker and the orchestrator both add to it.
type WarningCollector struct {
	mu       sync.Mutex
	warnings []Warning
	enabled  bool
}

// NewWarningCollector creates a new warning collector
func NewWarningCollector(enabled bool) *WarningCollector {
	return &WarningCollector{
		warnings: make([]Warning, 0),
		enabled:  enabled,
	}
}

// AddWarning adds a warning to the collector
func (wc *WarningCollector) AddWarning(warningType WarningType, context, message, details string) {
	if !wc.enabled {
		return
	}
	wc.mu.Lock()
	defer wc.mu.Unlock()
	wc.warnings = append(wc.warnings, Warning{
		Type:    warningType,
		Message: message,
		Context: context,
		Details: details,
	})
}

// AddTagParseWarning records a file whose ID3 tag could not be read.
func (wc *WarningCollector) AddTagParseWarning(path, details string) {
	wc.AddWarning(TagParseWarning, path, "Could not read ID3 tag", details)
}

// AddTagMissingWarning records a file missing title or artist frames.
func (wc *WarningCollector) AddTagMissingWarning(path string) {
	wc.AddWarning(TagMissingWarning, path, "ID3 tag is missing title or artist", "")
}

// AddSummaryWriteWarning records a failed results-file write.
func (wc *WarningCollector) AddSummaryWriteWarning(dir, details string) {
	wc.AddWarning(SummaryWriteWarning, dir, "Failed to write download results", details)
}

// HasWarnings returns true if there are any warnings
func (wc *WarningCollector) HasWarnings() bool {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	return len(wc.warnings) > 0
}

// GetWarningCount returns the total number of warnings
func (wc *WarningCollector) GetWarningCount() int {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	return len(wc.warnings)
}

// PrintSummary prints a formatted summary of all warnings
func (wc *WarningCollector) PrintSummary() {
	wc.mu.Lock()
	warnings := make([]Warning, len(wc.warnings))
	copy(warnings, wc.warnings)
	wc.mu.Unlock()

	if len(warnings) == 0 {
		return
	}

	ColorWarning.Printf("\n⚠️ %d warning(s) during this run:\n", len(warnings))
	for _, w := range warnings {
		line := fmt.Sprintf("  - %s: %s", w.Context, w.Message)
		if w.Details != "" {
			line += fmt.Sprintf(" (%s)", w.Details)
		}
		ColorWarning.Println(line)
	}
}
