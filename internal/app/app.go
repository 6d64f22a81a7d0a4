// Package app initializes and holds long-lived application services, acting as a dependency injection container.
package app

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/JakeFAU/leetstats/internal/clock/system"
	"github.com/JakeFAU/leetstats/internal/config"
	collyfetcher "github.com/JakeFAU/leetstats/internal/fetcher/colly"
	"github.com/JakeFAU/leetstats/internal/live"
	"github.com/JakeFAU/leetstats/internal/store"
	"github.com/JakeFAU/leetstats/internal/tracker"
	"github.com/JakeFAU/leetstats/internal/wayback"
)

// GCSClientFactory opens the storage client used by the store mirror.
type GCSClientFactory interface {
	NewClient(ctx context.Context) (*storage.Client, error)
}

// DefaultGCSClientFactory uses application default credentials.
type DefaultGCSClientFactory struct{}

// NewClient creates a storage client from the environment.
func (DefaultGCSClientFactory) NewClient(ctx context.Context) (*storage.Client, error) {
	return storage.NewClient(ctx)
}

// App holds the services shared by the harvest and fetch commands.
type App struct {
	cfg       config.Config
	logger    *zap.Logger
	clock     *system.Clock
	repo      *store.Mirrored
	gcsClient *storage.Client
}

// Logger returns the shared zap logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Store returns the record store, mirrored to GCS when configured.
func (a *App) Store() tracker.Repository {
	return a.repo
}

// NewApp builds the store and clock from cfg. It fails fast when the GCS
// mirror is configured but cannot be created.
func NewApp(ctx context.Context, cfg config.Config, logger *zap.Logger, gcs GCSClientFactory) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	file, err := store.NewFile(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	a := &App{
		cfg:    cfg,
		logger: logger,
		clock:  system.New(loc),
	}

	var mirror store.Writer
	if cfg.Store.GCSBucket != "" {
		if gcs == nil {
			gcs = DefaultGCSClientFactory{}
		}
		client, err := gcs.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("create storage client: %w", err)
		}
		gcsMirror, err := store.NewGCSMirror(client, store.GCSConfig{
			Bucket: cfg.Store.GCSBucket,
			Object: cfg.Store.GCSObject,
		})
		if err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("init gcs mirror: %w", err)
		}
		a.gcsClient = client
		mirror = gcsMirror
		logger.Info("mirroring store to gcs", zap.String("uri", gcsMirror.URI()))
	}
	a.repo = store.NewMirrored(file, mirror)
	logger.Debug("store ready", zap.String("path", file.Path()))

	return a, nil
}

// Harvester builds the archive pipeline.
func (a *App) Harvester() *wayback.Harvester {
	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent:    a.cfg.HTTP.UserAgent,
		Timeout:      a.cfg.Timeout(),
		MaxBodyBytes: a.cfg.HTTP.MaxBodyBytes,
	})
	client := wayback.NewClient(fetcher, wayback.ClientConfig{
		BaseURL:   a.cfg.Archive.BaseURL,
		TargetURL: a.cfg.Archive.TargetURL,
		UserAgent: a.cfg.HTTP.UserAgent,
	})
	logger := a.logger.Named("harvest")
	extractor := wayback.NewExtractor(client, wayback.ExtractorConfig{
		Problem:      a.cfg.Problem,
		PageURL:      a.cfg.Archive.PageURL,
		APIEndpoints: a.cfg.Archive.APIEndpoints,
	}, a.clock, logger.Named("extract"))
	return wayback.NewHarvester(client, extractor, a.repo, a.clock, wayback.HarvesterConfig{
		LookbackMonths: a.cfg.Archive.LookbackMonths,
		Delay:          a.cfg.Archive.Delay,
	}, logger)
}

// LiveFetcher builds the live GraphQL pipeline.
func (a *App) LiveFetcher() *live.Fetcher {
	client := live.NewClient(live.ClientConfig{
		BaseURL:   a.cfg.Live.BaseURL,
		Path:      a.cfg.Live.Path,
		UserAgent: a.cfg.Live.UserAgent,
		Timeout:   a.cfg.Timeout(),
	}, nil)
	return live.NewFetcher(client, a.repo, a.clock, a.cfg.Problem.Slug, a.logger.Named("fetch"))
}

// Close releases the GCS client, if any, and flushes the logger.
func (a *App) Close() {
	if a.gcsClient != nil {
		if err := a.gcsClient.Close(); err != nil {
			a.logger.Warn("error closing storage client", zap.Error(err))
		}
	}
	// Sync fails on terminals; nothing useful to do with the error.
	_ = a.logger.Sync()
}
