// Package xmlfeed queries XML video search endpoints (rss > list > video).
package xmlfeed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/upb/video-search-gateway/internal/observability"
	"github.com/upb/video-search-gateway/services/providers"
	"go.uber.org/zap"
)

const (
	// DefaultUserAgent identifies requests as a desktop browser; several providers
	// reject clients without one.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.36"

	DefaultTimeout      = 5 * time.Second
	DefaultMaxRecords   = 15
	DefaultMaxBodyBytes = 10 << 20
)

var errBodyTooLarge = errors.New("response body exceeds limit")

// Config holds per-request client settings
type Config struct {
	// Timeout bounds one provider call, including reading the body
	Timeout time.Duration

	UserAgent string

	// MaxRecords caps the records kept from one provider
	MaxRecords int

	MaxBodyBytes int64
}

// DefaultConfig returns the client defaults
func DefaultConfig() Config {
	return Config{
		Timeout:      DefaultTimeout,
		UserAgent:    DefaultUserAgent,
		MaxRecords:   DefaultMaxRecords,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

// Client implements providers.Fetcher for XML feeds
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new client. A nil httpClient uses the shared tuned client.
func NewClient(config Config, httpClient *http.Client, logger *zap.Logger) *Client {
	defaults := DefaultConfig()
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.UserAgent == "" {
		config.UserAgent = defaults.UserAgent
	}
	if config.MaxRecords <= 0 {
		config.MaxRecords = defaults.MaxRecords
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = defaults.MaxBodyBytes
	}
	if httpClient == nil {
		httpClient = HTTPClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Config returns the effective configuration
func (c *Client) Config() Config {
	return c.config
}

// CloseIdleConnections releases pooled provider connections.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// Fetch queries one provider. It never fails: errors become a failed Outcome.
func (c *Client) Fetch(ctx context.Context, desc providers.Descriptor, query string) providers.Outcome {
	start := time.Now()
	out := c.fetch(ctx, desc, query)
	out.Duration = time.Since(start)

	c.logOutcome(ctx, out)
	return out
}

func (c *Client) fetch(ctx context.Context, desc providers.Descriptor, query string) providers.Outcome {
	// released on every return path so no timer outlives the call
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, desc.SearchURL(query), nil)
	if err != nil {
		return providers.FailureFrom(desc, providers.NewProviderError(desc.Key, providers.FailureNetwork, 0, err))
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/xml, text/xml;q=0.9, */*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return providers.FailureFrom(desc, providers.NewProviderError(desc.Key, classify(ctx, err), 0, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain a little so the connection can be reused
		_, _ = io.CopyN(io.Discard, resp.Body, 4<<10)
		return providers.FailureFrom(desc, providers.NewProviderError(desc.Key, providers.FailureRejected, resp.StatusCode,
			fmt.Errorf("status %d", resp.StatusCode)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxBodyBytes+1))
	if err != nil {
		return providers.FailureFrom(desc, providers.NewProviderError(desc.Key, classify(ctx, err), resp.StatusCode, err))
	}
	if int64(len(body)) > c.config.MaxBodyBytes {
		return providers.FailureFrom(desc, providers.NewProviderError(desc.Key, providers.FailureMalformed, resp.StatusCode, errBodyTooLarge))
	}

	records, err := Decode(body, desc, c.config.MaxRecords)
	if err != nil {
		return providers.FailureFrom(desc, providers.NewProviderError(desc.Key, providers.FailureMalformed, resp.StatusCode, err))
	}

	out := providers.Succeeded(desc, records)
	out.StatusCode = resp.StatusCode
	return out
}

// classify maps a transport error to a failure reason. ctx is the per-call context.
func classify(ctx context.Context, err error) providers.FailureReason {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return providers.FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return providers.FailureTimeout
	}
	return providers.FailureNetwork
}

func (c *Client) logOutcome(ctx context.Context, out providers.Outcome) {
	logger := observability.WithContext(ctx, c.logger).With(
		zap.String("provider", out.Provider.Key),
		zap.String("provider_name", out.Provider.Name),
		zap.Duration("duration", out.Duration),
	)

	switch {
	case !out.Failed:
		logger.Debug("provider search completed",
			zap.Int("status", out.StatusCode),
			zap.Int("records", len(out.Records)))
	case out.Reason == providers.FailureTimeout:
		logger.Info("provider request timed out", zap.Error(out.Err))
	default:
		logger.Error("provider search failed",
			zap.String("reason", string(out.Reason)),
			zap.Int("status", out.StatusCode),
			zap.Error(out.Err))
	}
}
