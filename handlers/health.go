package handlers

import (
	"net/http"

	"github.com/upb/video-search-gateway/app"
	"github.com/upb/video-search-gateway/utils"
	"go.uber.org/zap"
)

// Version is reported by the status endpoint.
const Version = "0.1.0"

// HealthCheck returns a simple health check handler
func HealthCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

// ReadinessCheck reports whether the gateway has any providers to search
func ReadinessCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{}
		status := "ready"

		if deps.ProviderRegistry.Count() == 0 {
			status = "not_ready"
			checks["providers"] = "none_configured"
		} else {
			checks["providers"] = "configured"
		}

		code := http.StatusOK
		if status != "ready" {
			code = http.StatusServiceUnavailable
		}
		respondJSON(w, code, map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	}
}

// StatusHandler returns application status information
func StatusHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client := deps.ProviderClient.Config()

		respondJSON(w, http.StatusOK, map[string]interface{}{
			"version":     Version,
			"environment": deps.Config.Environment,
			"providers":   deps.ProviderRegistry.Keys(),
			"limits": map[string]interface{}{
				"max_providers":       deps.SearchService.MaxProviders(),
				"max_results":         client.MaxRecords,
				"provider_timeout_ms": client.Timeout.Milliseconds(),
			},
		})
	}
}

// ProviderMetricsHandler returns per-provider outcome counters
func ProviderMetricsHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := utils.WriteOK(w, deps.Metrics.Snapshot()); err != nil {
			deps.Logger.Error("failed to write provider metrics response", zap.Error(err))
		}
	}
}
