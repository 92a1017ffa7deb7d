package downloader

import (
	"fmt"
	"os/exec"
	"strings"
)

const toolName = "spotdl"

// ToolRunner is the opaque search-and-fetch capability behind the external
// downloader tool. Run blocks until the tool exits and returns its combined
// output as diagnostic text; a non-nil error means the invocation failed or
// the tool exited nonzero.
type ToolRunner interface {
	Run(query, outputDir, bitrate string) (string, error)
}

// SpotdlRunner invokes the spotdl CLI as a subprocess.
type SpotdlRunner struct {
	tool string
}

// NewSpotdlRunner creates a runner for the spotdl binary on PATH.
func NewSpotdlRunner() *SpotdlRunner {
	return &SpotdlRunner{tool: toolName}
}

// Run executes `spotdl download "<query>" --output <dir> --bitrate <quality> --preload`.
func (r *SpotdlRunner) Run(query, outputDir, bitrate string) (string, error) {
	cmd := exec.Command(r.tool, buildToolArgs(query, outputDir, bitrate)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("%s failed: %w: %s", r.tool, err, lastDiagnosticLine(output))
	}
	return string(output), nil
}

// buildToolArgs assembles the downloader tool's argument list.
func buildToolArgs(query, outputDir, bitrate string) []string {
	return []string{
		"download", query,
		"--output", outputDir,
		"--bitrate", bitrate,
		"--preload",
	}
}

// lastDiagnosticLine returns the last non-empty line of tool output, which is
// where spotdl prints its error summary.
func lastDiagnosticLine(output []byte) string {
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return "no output"
}

// CheckTool checks if the downloader tool is installed and available in the
// system's PATH.
func CheckTool() bool {
	_, err := exec.LookPath(toolName)
	return err == nil
}
