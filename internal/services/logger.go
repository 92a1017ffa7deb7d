package services

import (
	"spotify-playlist-downloader/internal/shared"
)

// ConsoleLogger writes colored log lines to the terminal.
type ConsoleLogger struct {
	debugMode bool
}

// NewConsoleLogger creates a console logger
func NewConsoleLogger() *ConsoleLogger {
	return &ConsoleLogger{}
}

func (cl *ConsoleLogger) Info(message string, args ...interface{}) {
	shared.ColorInfo.Printf(message+"\n", args...)
}

func (cl *ConsoleLogger) Warning(message string, args ...interface{}) {
	shared.ColorWarning.Printf("⚠️ "+message+"\n", args...)
}

func (cl *ConsoleLogger) Error(message string, args ...interface{}) {
	shared.ColorError.Printf("❌ "+message+"\n", args...)
}

func (cl *ConsoleLogger) Debug(message string, args ...interface{}) {
	if cl.debugMode {
		shared.ColorInfo.Printf("DEBUG: "+message+"\n", args...)
	}
}

func (cl *ConsoleLogger) Success(message string, args ...interface{}) {
	shared.ColorSuccess.Printf("✅ "+message+"\n", args...)
}

func (cl *ConsoleLogger) SetDebugMode(enabled bool) {
	cl.debugMode = enabled
}
