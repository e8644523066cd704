package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/video-search-gateway/services"
	"github.com/upb/video-search-gateway/utils"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestHandleServiceError(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "missing query",
			err:            services.ErrQueryRequired,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Search query not provided",
		},
		{
			name:           "missing configuration",
			err:            services.ErrConfigNotFound,
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "API configuration not found",
		},
		{
			name:           "wrapped configuration error",
			err:            fmt.Errorf("search: %w", services.ErrConfigNotFound),
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "API configuration not found",
		},
		{
			name:           "unknown error",
			err:            errors.New("something odd"),
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleServiceError(w, tt.err, logger)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var response utils.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
			assert.Equal(t, tt.expectedError, response.Error)
		})
	}
}

func TestHandleServiceErrorLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	HandleServiceError(httptest.NewRecorder(), services.ErrConfigNotFound, zap.New(core))

	require.Equal(t, 1, logs.FilterMessage("internal server error").Len())
	handled := logs.FilterMessage("handled service error").All()
	require.Len(t, handled, 1)
	assert.Equal(t, "internal", handled[0].ContextMap()["type"])
}

func TestHandleServiceErrorNil(t *testing.T) {
	w := httptest.NewRecorder()
	HandleServiceError(w, nil, zap.NewNop())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}
