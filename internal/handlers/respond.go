package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"relief-bknd/internal/models"
)

// Response is the generic API envelope
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps the error taxonomy onto HTTP statuses.
// Validation and transition errors are recoverable by the caller;
// store failures surface as system-level errors.
func writeServiceError(w http.ResponseWriter, logr *zap.Logger, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		logr.Warn("validation failed", zap.Any("fields", verr.Fields))
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Validation failed",
			"errors":  verr.Fields,
		})
	case errors.Is(err, models.ErrInvalidTransition):
		logr.Warn("invalid transition", zap.Error(err))
		writeJSON(w, http.StatusConflict, Response{
			Success: false,
			Message: "Request already handled",
		})
	case errors.Is(err, models.ErrNotFound):
		logr.Warn("request not found", zap.Error(err))
		writeJSON(w, http.StatusNotFound, Response{
			Success: false,
			Message: "Request not found",
		})
	case errors.Is(err, models.ErrStoreUnavailable):
		logr.Error("store unavailable", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, Response{
			Success: false,
			Message: "Request store is unavailable",
		})
	default:
		logr.Error("internal error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Message: "Internal server error",
		})
	}
}
