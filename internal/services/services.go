package services

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"spotify-playlist-downloader/internal/api/spotify"
	"spotify-playlist-downloader/internal/config"
	"spotify-playlist-downloader/internal/core/downloader"
	"spotify-playlist-downloader/internal/interfaces"
	"spotify-playlist-downloader/internal/shared"
)

// ServiceContainer holds all application services
type ServiceContainer struct {
	Config    *config.Config
	Spotify   interfaces.SpotifyService
	Logger    interfaces.LoggerService
	Runner    downloader.ToolRunner
	Warnings  *shared.WarningCollector
	Downloads interfaces.DownloadService
}

// NewServiceContainer creates a new service container with all services
// initialized. events carries progress/status to the front end and may be nil.
func NewServiceContainer(cfg *config.Config, events downloader.EventSink) *ServiceContainer {
	logger := NewConsoleLogger()
	warnings := shared.NewWarningCollector(true)
	spotifyClient := spotify.NewClient(cfg.SpotifyClientID, cfg.SpotifyClientSecret)
	runner := downloader.NewSpotdlRunner()

	return &ServiceContainer{
		Config:   cfg,
		Spotify:  spotifyClient,
		Logger:   logger,
		Runner:   runner,
		Warnings: warnings,
		Downloads: NewPlaylistDownloadService(
			cfg, spotifyClient, runner, logger, warnings, events,
		),
	}
}

// PlaylistDownloadService implements the run-level download flow: authenticate,
// fetch the playlist, orchestrate the worker pool, persist the summary.
type PlaylistDownloadService struct {
	cfg        *config.Config
	spotify    interfaces.SpotifyService
	runner     downloader.ToolRunner
	logger     interfaces.LoggerService
	warnings   *shared.WarningCollector
	events     downloader.EventSink
	retryDelay time.Duration
}

// NewPlaylistDownloadService wires the download flow's collaborators.
func NewPlaylistDownloadService(
	cfg *config.Config,
	spotifySvc interfaces.SpotifyService,
	runner downloader.ToolRunner,
	logger interfaces.LoggerService,
	warnings *shared.WarningCollector,
	events downloader.EventSink,
) *PlaylistDownloadService {
	return &PlaylistDownloadService{
		cfg:        cfg,
		spotify:    spotifySvc,
		runner:     runner,
		logger:     logger,
		warnings:   warnings,
		events:     events,
		retryDelay: shared.DefaultRetryDelay,
	}
}

func (s *PlaylistDownloadService) status(message string) {
	if s.events != nil {
		s.events.Status(message)
	}
}

// Run downloads every track of the playlist into a per-playlist folder under
// the configured download location, then writes download_results.json there.
// Authentication and fetch failures abort the run; per-track failures do not.
func (s *PlaylistDownloadService) Run(ctx context.Context, playlistRef string) error {
	if err := s.spotify.Authenticate(ctx); err != nil {
		s.status("[ERROR] Spotify authentication failed.")
		return err
	}

	tracks, err := s.spotify.PlaylistTracks(ctx, playlistRef)
	if err != nil {
		s.status("[ERROR] Failed to fetch playlist tracks.")
		return fmt.Errorf("failed to fetch playlist tracks: %w", err)
	}
	if len(tracks) == 0 {
		s.status("[ERROR] No tracks found.")
		return shared.ErrNoTracks
	}

	playlistName, err := s.spotify.PlaylistName(ctx, playlistRef)
	if err != nil {
		s.status("[ERROR] Failed to fetch playlist metadata.")
		return fmt.Errorf("failed to fetch playlist metadata: %w", err)
	}

	destDir := filepath.Join(s.cfg.DownloadLocation, shared.SanitizeName(playlistName))
	if err := shared.CreateDirIfNotExists(destDir); err != nil {
		return fmt.Errorf("failed to create download folder: %w", err)
	}

	s.status(fmt.Sprintf("Downloading %d tracks...", len(tracks)))

	tags := downloader.NewTagQueue(s.warnings)
	trackDownloader := downloader.NewTrackDownloader(
		s.runner, s.cfg.MaxRetryAttempts, s.retryDelay, s.logger,
	)
	orchestrator := downloader.NewOrchestrator(
		trackDownloader, s.cfg.Parallelism, s.events, tags,
	)

	job := downloader.Job{
		PlaylistRef: playlistRef,
		DestDir:     destDir,
		Quality:     s.cfg.Bitrate,
	}
	success, failed := orchestrator.Run(ctx, job, tracks)
	tags.Close()

	// The summary is written even for partial (cancelled) runs; whatever
	// finished is on disk and worth recording.
	if err := downloader.WriteResults(destDir, success, failed); err != nil {
		s.logger.Warning("Could not write download results: %v", err)
		s.warnings.AddSummaryWriteWarning(destDir, err.Error())
	}

	s.warnings.PrintSummary()

	if ctx.Err() != nil {
		return shared.ErrDownloadCancelled
	}

	stats := orchestrator.Stats()
	s.logger.Info("Finished: %d downloaded, %d skipped, %d failed",
		stats.SuccessCount, stats.SkippedCount, stats.FailedCount)
	s.status("✅ Download complete!")
	return nil
}
