package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	"spotify-playlist-downloader/internal/config"
	"spotify-playlist-downloader/internal/core/downloader"
	"spotify-playlist-downloader/internal/services"
	"spotify-playlist-downloader/internal/shared"
)

const toolVersion = "1.0.0"

var (
	configFile       string
	downloadLocation string
	bitrate          string
	parallelism      int
	debug            bool
)

var rootCmd = &cobra.Command{
	Use:     "spotify-playlist-downloader",
	Version: toolVersion,
	Short:   "Download every track of a Spotify playlist via spotdl.",
	Long: fmt.Sprintf(`Spotify Playlist Downloader (v%s)

Fetches the full track list of a Spotify playlist and downloads each track to
local audio files by driving the spotdl command-line tool, with a bounded
worker pool, duplicate detection, retries and a live progress readout.`, toolVersion),
}

var downloadCmd = &cobra.Command{
	Use:   "download [playlist_url]",
	Short: "Download all tracks of a playlist.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(configFile)
		if err != nil {
			shared.ColorError.Printf("❌ Could not load %s: %v\n", configFile, err)
			shared.ColorInfo.Println("Run `spotify-playlist-downloader config` to create one.")
			os.Exit(1)
		}

		// Command-line flags override the config file.
		if downloadLocation != "" {
			cfg.DownloadLocation = downloadLocation
		}
		if bitrate != "" {
			cfg.Bitrate = bitrate
		}
		if parallelism > 0 {
			cfg.Parallelism = parallelism
		}

		if err := config.Validate(cfg); err != nil {
			shared.ColorError.Printf("❌ Invalid configuration: %v\n", err)
			os.Exit(1)
		}
		if !downloader.CheckTool() {
			shared.ColorError.Println("❌ spotdl not found on PATH. Install it with `pip install spotdl`.")
			os.Exit(1)
		}

		// Ctrl-C requests cooperative cancellation: no new tracks are
		// dispatched, in-flight downloads run to completion and are discarded.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		events := newTerminalEvents()
		defer events.Finish()

		container := services.NewServiceContainer(cfg, events)
		container.Logger.SetDebugMode(debug)

		shared.ColorInfo.Println("🎵 Starting playlist download:", args[0])
		err = container.Downloads.Run(ctx, args[0])
		events.Finish()
		switch {
		case errors.Is(err, shared.ErrDownloadCancelled):
			shared.ColorWarning.Println("❌ Download cancelled.")
		case errors.Is(err, shared.ErrNoTracks):
			os.Exit(1)
		case err != nil:
			shared.ColorError.Printf("❌ Download failed: %v\n", err)
			os.Exit(1)
		default:
			shared.ColorSuccess.Println("✅ Playlist download completed!")
		}
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Interactively create the configuration file.",
	Run: func(cmd *cobra.Command, args []string) {
		shared.ColorInfo.Println("✨ Let's set up your configuration.")
		if shared.FileExists(configFile) {
			shared.ColorWarning.Printf("⚠️ %s already exists and will be overwritten.\n", configFile)
		}

		cfg := &config.Config{
			Parallelism:      shared.DefaultParallelism,
			Bitrate:          config.DefaultBitrate,
			MaxRetryAttempts: config.DefaultMaxRetries,
		}
		cfg.SpotifyClientID = shared.GetUserInput("Enter Spotify client id", "")
		cfg.SpotifyClientSecret = shared.GetUserInput("Enter Spotify client secret", "")
		cfg.DownloadLocation = shared.GetUserInput("Enter download location",
			defaultMusicDir())
		cfg.Bitrate = shared.GetUserInput("Enter bitrate (128k/192k/256k/320k)", cfg.Bitrate)
		if err := config.ValidateBitrate(cfg.Bitrate); err != nil {
			shared.ColorWarning.Printf("⚠️ %v, using %s.\n", err, config.DefaultBitrate)
			cfg.Bitrate = config.DefaultBitrate
		}
		parallelismStr := shared.GetUserInput("Enter number of parallel downloads",
			strconv.Itoa(cfg.Parallelism))
		if p, err := strconv.Atoi(parallelismStr); err == nil && p > 0 {
			cfg.Parallelism = p
		} else {
			shared.ColorWarning.Printf("⚠️ Invalid parallelism value '%s', using default %d.\n",
				parallelismStr, cfg.Parallelism)
		}

		if err := config.Save(configFile, cfg); err != nil {
			shared.ColorError.Printf("❌ Failed to save config: %v\n", err)
			os.Exit(1)
		}
		shared.ColorSuccess.Println("✅ Configuration saved to", configFile)
	},
}

func defaultMusicDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "Music"
	}
	return home + "/Music"
}

// terminalEvents renders the orchestrator's event streams on the terminal:
// a pb progress bar (when attached to a TTY) and colored status lines.
type terminalEvents struct {
	bar *pb.ProgressBar
}

func newTerminalEvents() *terminalEvents {
	e := &terminalEvents{}
	if shared.IsTTY() {
		e.bar = pb.New(100)
		e.bar.SetTemplateString(`{{ bar . }} {{ percent . }}`)
		e.bar.Start()
	}
	return e
}

func (e *terminalEvents) Progress(percent int) {
	if e.bar != nil {
		e.bar.SetCurrent(int64(percent))
	}
}

func (e *terminalEvents) Status(message string) {
	shared.ColorInfo.Println(message)
}

func (e *terminalEvents) Finish() {
	if e.bar != nil && e.bar.IsStarted() {
		e.bar.Finish()
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultConfigFile, "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	downloadCmd.Flags().StringVar(&downloadLocation, "output", "", "Directory to save downloads")
	downloadCmd.Flags().StringVar(&bitrate, "bitrate", "", "Audio quality (128k, 192k, 256k, 320k)")
	downloadCmd.Flags().IntVar(&parallelism, "parallelism", 0, "Number of parallel downloads")

	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	shared.InitializeColors()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
