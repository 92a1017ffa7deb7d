package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"spotify-playlist-downloader/internal/shared"
)

const (
	DefaultConfigFile = "config.ini"
	DefaultMaxRetries = 3
	DefaultBitrate    = "320k"
)

// ValidBitrates are the quality settings accepted by the downloader tool.
var ValidBitrates = []string{"128k", "192k", "256k", "320k"}

// Config is the run configuration read from config.ini.
type Config struct {
	SpotifyClientID     string
	SpotifyClientSecret string
	DownloadLocation    string
	Parallelism         int
	Bitrate             string
	MaxRetryAttempts    int
}

// Load reads configuration from an INI file. Spotify credentials live in the
// [spotify] section; downloader settings in [downloader]. A missing file is an
// error: without credentials the run cannot authenticate and must abort.
func Load(filePath string) (*Config, error) {
	if !shared.FileExists(filePath) {
		return nil, fmt.Errorf("config file %s does not exist", filePath)
	}

	v := viper.New()
	v.SetConfigFile(filePath)
	v.SetConfigType("ini")

	v.SetDefault("downloader.download_location", filepath.Join(os.Getenv("HOME"), "Music"))
	v.SetDefault("downloader.parallelism", 4)
	v.SetDefault("downloader.bitrate", DefaultBitrate)
	v.SetDefault("downloader.max_retries", DefaultMaxRetries)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}

	cfg := &Config{
		SpotifyClientID:     v.GetString("spotify.client_id"),
		SpotifyClientSecret: v.GetString("spotify.client_secret"),
		DownloadLocation:    v.GetString("downloader.download_location"),
		Parallelism:         v.GetInt("downloader.parallelism"),
		Bitrate:             v.GetString("downloader.bitrate"),
		MaxRetryAttempts:    v.GetInt("downloader.max_retries"),
	}

	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 4
	}
	if cfg.MaxRetryAttempts <= 0 {
		cfg.MaxRetryAttempts = DefaultMaxRetries
	}

	return cfg, nil
}

// Validate checks that the configuration can support a download run.
func Validate(cfg *Config) error {
	if cfg.SpotifyClientID == "" || cfg.SpotifyClientSecret == "" {
		return fmt.Errorf("spotify client_id or client_secret is missing in the config file")
	}
	if cfg.DownloadLocation == "" {
		return fmt.Errorf("download location is required")
	}
	return ValidateBitrate(cfg.Bitrate)
}

// ValidateBitrate checks that a quality setting is one the downloader tool accepts.
func ValidateBitrate(bitrate string) error {
	for _, b := range ValidBitrates {
		if bitrate == b {
			return nil
		}
	}
	return fmt.Errorf("invalid bitrate %q (expected one of %v)", bitrate, ValidBitrates)
}

// Save writes the configuration to an INI file, creating parent directories
// as needed.
func Save(filePath string, cfg *Config) error {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	contents := fmt.Sprintf(`[spotify]
client_id = %s
client_secret = %s

[downloader]
download_location = %s
parallelism = %d
bitrate = %s
max_retries = %d
`, cfg.SpotifyClientID, cfg.SpotifyClientSecret, cfg.DownloadLocation,
		cfg.Parallelism, cfg.Bitrate, cfg.MaxRetryAttempts)

	if err := os.WriteFile(filePath, []byte(contents), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
