package adaptor

import (
	"net/http"

	"marketplace-booking/pkg/apperr"
	"marketplace-booking/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps a usecase error to the HTTP response. Dependency
// failures never leak their cause to the caller.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	appErr, ok := apperr.As(err)
	if !ok || appErr.Kind == apperr.KindDependency {
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseError(w, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		return
	}

	log.Warn(operation+" rejected",
		zap.String("code", appErr.Code),
		zap.Int("status", appErr.HTTPStatus()),
	)
	utils.ResponseError(w, appErr.HTTPStatus(), appErr.Code, appErr.Message, nil)
}
