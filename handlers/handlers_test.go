package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/upb/video-search-gateway/app"
	"github.com/upb/video-search-gateway/config"
	"github.com/upb/video-search-gateway/internal/observability"
	"github.com/upb/video-search-gateway/services/providers"
	"github.com/upb/video-search-gateway/services/providers/xmlfeed"
	"github.com/upb/video-search-gateway/services/search"
	"go.uber.org/zap/zaptest"
)

// feedXML renders an rss > list > video document with one video per name.
func feedXML(names ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?><rss version="5.1"><list page="1">`)
	for i, name := range names {
		fmt.Fprintf(&b, `<video><id>%d</id><name><![CDATA[%s]]></name><type>Movie</type></video>`, i+1, name)
	}
	b.WriteString(`</list></rss>`)
	return b.String()
}

// fakeProvider is an httptest XML endpoint that counts hits.
type fakeProvider struct {
	*httptest.Server
	hits atomic.Int32
}

func newFakeProvider(t *testing.T, handler http.HandlerFunc) *fakeProvider {
	t.Helper()
	p := &fakeProvider{}
	p.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(p.Close)
	return p
}

func xmlProvider(t *testing.T, body string) *fakeProvider {
	return newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		_, _ = w.Write([]byte(body))
	})
}

func (p *fakeProvider) descriptor(key, name string) providers.Descriptor {
	return providers.Descriptor{Key: key, Name: name, Endpoint: p.URL + "/api.php/provide/vod/at/xml"}
}

// newTestDeps wires the real search pipeline against the given providers.
func newTestDeps(t *testing.T, timeout time.Duration, descs ...providers.Descriptor) *app.Dependencies {
	t.Helper()
	logger := zaptest.NewLogger(t)

	registry, err := providers.NewRegistry(descs...)
	require.NoError(t, err)

	cfg := &config.Config{
		Environment: "test",
		Search: config.SearchConfig{
			ProviderTimeout: timeout,
			MaxProviders:    search.DefaultMaxProviders,
			MaxResults:      xmlfeed.DefaultMaxRecords,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
	}

	metrics := observability.NewCollector()
	client := xmlfeed.NewClient(xmlfeed.Config{Timeout: timeout}, nil, logger)
	dispatcher := search.NewDispatcher(client, cfg.Search.MaxProviders, metrics, logger)

	return &app.Dependencies{
		Config:           cfg,
		Logger:           logger,
		ProviderRegistry: registry,
		ProviderClient:   client,
		Dispatcher:       dispatcher,
		SearchService:    search.NewService(registry, dispatcher, logger),
		Metrics:          metrics,
	}
}
