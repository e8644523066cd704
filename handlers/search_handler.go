package handlers

import (
	"net/http"

	"github.com/upb/video-search-gateway/app"
	"github.com/upb/video-search-gateway/internal/observability"
	"github.com/upb/video-search-gateway/services"
	"github.com/upb/video-search-gateway/utils"
	"go.uber.org/zap"
)

// SearchHandler handles GET /api/search?q=<query>.
// The response is {"data": [...]} with every record tagged by source, even when
// some or all providers failed.
func SearchHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := observability.WithContext(r.Context(), deps.Logger)

		req := utils.SearchRequestFromHTTP(r)
		if err := utils.ValidateStruct(req); err != nil {
			logger.Debug("rejected search request", zap.Any("fields", utils.GetValidationFields(err)))
			HandleServiceError(w, services.ErrQueryRequired, logger)
			return
		}

		result, err := deps.SearchService.Search(r.Context(), req.Query)
		if err != nil {
			HandleServiceError(w, err, logger)
			return
		}

		if err := utils.WriteOK(w, result.Records); err != nil {
			logger.Error("failed to write search response", zap.Error(err))
		}
	}
}
