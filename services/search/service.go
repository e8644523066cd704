package search

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/upb/video-search-gateway/internal/observability"
	"github.com/upb/video-search-gateway/internal/shared"
	"github.com/upb/video-search-gateway/services"
	"github.com/upb/video-search-gateway/services/providers"
	"go.uber.org/zap"
)

// Service answers search queries against an injected provider registry.
type Service struct {
	registry   *providers.Registry
	dispatcher *Dispatcher
	logger     *zap.Logger
}

// NewService creates a search service. registry may be nil or empty, in which
// case every search fails with services.ErrConfigNotFound.
func NewService(registry *providers.Registry, dispatcher *Dispatcher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		registry:   registry,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Search fans query out to the configured providers and merges what they return.
// Provider failures only shrink the result; the error return is reserved for a
// missing query or a missing provider configuration.
func (s *Service) Search(ctx context.Context, query string) (Result, error) {
	if query == "" {
		return Result{}, services.ErrQueryRequired
	}
	if s.registry.Count() == 0 {
		return Result{}, services.ErrConfigNotFound
	}

	ctx = shared.WithSearchID(ctx, uuid.NewString())
	logger := observability.WithContext(ctx, s.logger)
	start := time.Now()

	outcomes := s.dispatcher.Dispatch(ctx, s.registry.All(), query)
	result := Aggregate(outcomes)

	failed := 0
	for _, out := range outcomes {
		if out.Failed {
			failed++
		}
	}
	logger.Info("search completed",
		zap.String("query", query),
		zap.Int("providers", len(outcomes)),
		zap.Int("failed", failed),
		zap.Int("records", len(result.Records)),
		zap.Duration("duration", time.Since(start)))

	return result, nil
}

// Registry returns the registry the service searches.
func (s *Service) Registry() *providers.Registry {
	return s.registry
}

// MaxProviders returns the per-search provider cap (<= 0 means no cap).
func (s *Service) MaxProviders() int {
	return s.dispatcher.maxProviders
}
