package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/upb/video-search-gateway/config"
	"github.com/upb/video-search-gateway/internal/observability"
	"github.com/upb/video-search-gateway/services/providers"
	"github.com/upb/video-search-gateway/services/providers/xmlfeed"
	"github.com/upb/video-search-gateway/services/search"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	Logger *zap.Logger

	// Provider registry, loaded once and read-only afterwards
	ProviderRegistry *providers.Registry

	// Search pipeline
	ProviderClient *xmlfeed.Client
	Dispatcher     *search.Dispatcher
	SearchService  *search.Service

	Metrics *observability.Collector
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewCollector(),
	}

	// Initialize provider registry
	if err := deps.initProviders(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize providers: %w", err)
	}

	deps.initSearch(cfg)

	logger.Info("all dependencies initialized successfully",
		zap.Int("providers", deps.ProviderRegistry.Count()))
	return deps, nil
}

// initProviders loads the registry file. A missing file leaves the registry empty
// so the server still starts and searches report the missing configuration.
func (d *Dependencies) initProviders(cfg *config.Config) error {
	registry, err := providers.LoadFile(cfg.Search.ProvidersFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		d.Logger.Warn("providers file not found, no providers configured",
			zap.String("path", cfg.Search.ProvidersFile))
		registry, _ = providers.NewRegistry()
	case err != nil:
		return err
	}

	for _, desc := range registry.All() {
		d.Logger.Info("provider registered",
			zap.String("provider", desc.Key),
			zap.String("provider_name", desc.Name))
	}
	if registry.Count() == 0 {
		d.Logger.Warn("no search providers configured")
	}

	d.ProviderRegistry = registry
	return nil
}

func (d *Dependencies) initSearch(cfg *config.Config) {
	d.ProviderClient = xmlfeed.NewClient(xmlfeed.Config{
		Timeout:      cfg.Search.ProviderTimeout,
		UserAgent:    cfg.Search.UserAgent,
		MaxRecords:   cfg.Search.MaxResults,
		MaxBodyBytes: cfg.Search.MaxBodyBytes,
	}, nil, d.Logger.Named("xmlfeed"))

	d.Dispatcher = search.NewDispatcher(d.ProviderClient, cfg.Search.MaxProviders, d.Metrics, d.Logger.Named("dispatcher"))
	d.SearchService = search.NewService(d.ProviderRegistry, d.Dispatcher, d.Logger.Named("search"))
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	if d.ProviderClient != nil {
		d.ProviderClient.CloseIdleConnections()
	}

	// Sync logger
	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	return nil
}
