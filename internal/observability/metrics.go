package observability

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Metrics collects provider outcome metrics.
type Metrics interface {
	RecordOutcome(ctx context.Context, labels OutcomeLabels, duration time.Duration)
}

// OutcomeLabels contains metric dimensions.
type OutcomeLabels struct {
	Provider string
	// Status is "ok", "empty", or the failure reason
	Status string
}

// ProviderStats is a point-in-time view of one provider's counters.
type ProviderStats struct {
	Provider      string           `json:"provider"`
	Requests      int64            `json:"requests"`
	Statuses      map[string]int64 `json:"statuses"`
	TotalDuration time.Duration    `json:"-"`
	AvgLatencyMs  float64          `json:"avg_latency_ms"`
}

// Collector is an in-process Metrics implementation.
type Collector struct {
	mu    sync.Mutex
	stats map[string]*ProviderStats
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{stats: make(map[string]*ProviderStats)}
}

// RecordOutcome implements Metrics.
func (c *Collector) RecordOutcome(_ context.Context, labels OutcomeLabels, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.stats[labels.Provider]
	if !ok {
		s = &ProviderStats{Provider: labels.Provider, Statuses: make(map[string]int64)}
		c.stats[labels.Provider] = s
	}
	s.Requests++
	s.Statuses[labels.Status]++
	s.TotalDuration += duration
}

// Snapshot returns a copy of all counters sorted by provider.
func (c *Collector) Snapshot() []ProviderStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]ProviderStats, 0, len(c.stats))
	for _, s := range c.stats {
		cp := *s
		cp.Statuses = make(map[string]int64, len(s.Statuses))
		for k, v := range s.Statuses {
			cp.Statuses[k] = v
		}
		if cp.Requests > 0 {
			cp.AvgLatencyMs = float64(cp.TotalDuration.Milliseconds()) / float64(cp.Requests)
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Provider < out[j].Provider })
	return out
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) RecordOutcome(context.Context, OutcomeLabels, time.Duration) {}
