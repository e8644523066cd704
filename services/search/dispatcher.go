package search

import (
	"context"
	"fmt"
	"sync"

	"github.com/upb/video-search-gateway/internal/observability"
	"github.com/upb/video-search-gateway/services/providers"
	"go.uber.org/zap"
)

// DefaultMaxProviders is the number of providers queried per search.
const DefaultMaxProviders = 8

// Dispatcher fans a query out to the first MaxProviders providers and waits for
// every call to settle.
type Dispatcher struct {
	fetcher providers.Fetcher
	// <= 0 queries every provider
	maxProviders int
	metrics      observability.Metrics
	logger       *zap.Logger
}

// NewDispatcher creates a dispatcher. metrics may be nil.
func NewDispatcher(fetcher providers.Fetcher, maxProviders int, metrics observability.Metrics, logger *zap.Logger) *Dispatcher {
	if metrics == nil {
		metrics = observability.NopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		fetcher:      fetcher,
		maxProviders: maxProviders,
		metrics:      metrics,
		logger:       logger,
	}
}

// Select returns the providers a search will query, in registry order.
func (d *Dispatcher) Select(descs []providers.Descriptor) []providers.Descriptor {
	if d.maxProviders > 0 && len(descs) > d.maxProviders {
		return descs[:d.maxProviders]
	}
	return descs
}

// Dispatch queries the selected providers concurrently. The result has one
// outcome per selected provider, in selection order, whatever order they finish in.
// A failing provider never cancels or delays reporting of the others.
func (d *Dispatcher) Dispatch(ctx context.Context, descs []providers.Descriptor, query string) []providers.Outcome {
	selected := d.Select(descs)
	outcomes := make([]providers.Outcome, len(selected))

	var wg sync.WaitGroup
	for i, desc := range selected {
		wg.Add(1)
		go func(i int, desc providers.Descriptor) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					outcomes[i] = providers.FailureFrom(desc, providers.NewProviderError(
						desc.Key, providers.FailureNetwork, 0, fmt.Errorf("panic: %v", r)))
					observability.WithContext(ctx, d.logger).Error("provider fetch panicked",
						zap.String("provider", desc.Key), zap.Any("panic", r))
				}
			}()

			outcomes[i] = d.fetcher.Fetch(ctx, desc, query)
		}(i, desc)
	}
	wg.Wait()

	for _, out := range outcomes {
		d.metrics.RecordOutcome(ctx, observability.OutcomeLabels{
			Provider: out.Provider.Key,
			Status:   out.Status(),
		}, out.Duration)
	}

	return outcomes
}
