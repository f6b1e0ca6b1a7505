package handlers

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"relief-bknd/internal/services"
)

// AnalyticsHandler handles HTTP requests for summary stats and export
type AnalyticsHandler struct {
	analytics *services.Analytics
	logr      *zap.Logger
}

func NewAnalyticsHandler(svc *services.Analytics, logr *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: svc, logr: logr}
}

// Summary handles GET /requests/summary
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.analytics.Summary(r.Context())
	if err != nil {
		writeServiceError(w, h.logr, err)
		return
	}

	h.logr.Info("summary computed", zap.Int("total", summary.Total))

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    summary,
	})
}

// Export handles GET /requests/export, serving the current snapshot as
// a CSV download in the local-file column format.
func (h *AnalyticsHandler) Export(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeServiceError(w, h.logr, err)
		return
	}

	filename := fmt.Sprintf("disaster_requests_%s.csv", time.Now().UTC().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.analytics.WriteCSV(r.Context(), w, filter); err != nil {
		// Headers are already out; all we can do is log.
		h.logr.Error("failed to stream export", zap.Error(err))
		return
	}

	h.logr.Info("snapshot exported", zap.String("filename", filename))
}
