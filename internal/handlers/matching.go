package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"relief-bknd/internal/models"
	"relief-bknd/internal/services"
	"relief-bknd/internal/utils"
)

// MatchHandler handles HTTP requests for proximity matching
type MatchHandler struct {
	matcher *services.Matcher
	logr    *zap.Logger
}

func NewMatchHandler(svc *services.Matcher, logr *zap.Logger) *MatchHandler {
	return &MatchHandler{matcher: svc, logr: logr}
}

// Nearby handles GET /requests/nearby
func (h *MatchHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(q.Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		h.logr.Warn("invalid volunteer coordinates",
			zap.String("lat", q.Get("lat")), zap.String("lon", q.Get("lon")))
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Message: "lat and lon query parameters are required numbers",
		})
		return
	}

	opts := services.MatchOptions{}
	for _, raw := range utils.ParseQueryList(q, "category") {
		category := models.Category(raw)
		if !category.Valid() {
			writeJSON(w, http.StatusBadRequest, Response{
				Success: false,
				Message: "category must be one of Water, Food, Medical, Shelter, Evacuation",
			})
			return
		}
		opts.Categories = append(opts.Categories, category)
	}
	if v := q.Get("max_km"); v != "" {
		maxKM, err := strconv.ParseFloat(v, 64)
		if err != nil || maxKM <= 0 {
			writeJSON(w, http.StatusBadRequest, Response{
				Success: false,
				Message: "max_km must be a positive number",
			})
			return
		}
		opts.MaxDistanceKM = maxKM
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			writeJSON(w, http.StatusBadRequest, Response{
				Success: false,
				Message: "limit must be a positive integer",
			})
			return
		}
		opts.Limit = limit
	}

	matches, err := h.matcher.Nearby(r.Context(), models.Coordinates{Lat: lat, Lon: lon}, opts)
	if err != nil {
		writeServiceError(w, h.logr, err)
		return
	}

	h.logr.Info("nearby requests matched",
		zap.Float64("lat", lat),
		zap.Float64("lon", lon),
		zap.Int("count", len(matches)))

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    matches,
		"count":   len(matches),
	})
}
