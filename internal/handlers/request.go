package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"relief-bknd/internal/models"
	"relief-bknd/internal/services"
	"relief-bknd/internal/store"
	"relief-bknd/internal/utils"
)

// RequestHandler handles HTTP requests for the request lifecycle
type RequestHandler struct {
	lifecycle *services.Lifecycle
	logr      *zap.Logger
}

func NewRequestHandler(svc *services.Lifecycle, logr *zap.Logger) *RequestHandler {
	return &RequestHandler{lifecycle: svc, logr: logr}
}

// Create handles POST /requests
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logr.Error("failed to decode request body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	req, err := h.lifecycle.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, h.logr, err)
		return
	}

	h.logr.Info("request created",
		zap.String("id", req.ID),
		zap.String("category", string(req.Category)),
		zap.Bool("has_coordinates", req.Coordinates != nil))

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data":    req,
	})
}

// List handles GET /requests
func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeServiceError(w, h.logr, err)
		return
	}

	requests, err := h.lifecycle.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, h.logr, err)
		return
	}

	h.logr.Info("requests listed", zap.Int("count", len(requests)))

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    requests,
		"count":   len(requests),
	})
}

// Get handles GET /requests/{id}
func (h *RequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	req, err := h.lifecycle.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logr, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    req,
	})
}

// Accept handles POST /requests/{id}/accept
func (h *RequestHandler) Accept(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body struct {
		Volunteer string `json:"volunteer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logr.Error("failed to decode request body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	if err := h.lifecycle.Accept(r.Context(), id, body.Volunteer); err != nil {
		writeServiceError(w, h.logr, err)
		return
	}

	h.logr.Info("request accepted",
		zap.String("id", id),
		zap.String("volunteer", body.Volunteer))

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Request accepted",
	})
}

// Advance handles POST /requests/{id}/advance
func (h *RequestHandler) Advance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.lifecycle.Advance(r.Context(), id); err != nil {
		writeServiceError(w, h.logr, err)
		return
	}

	h.logr.Info("request advanced", zap.String("id", id))

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Request advanced",
	})
}

// parseFilter reads status/category query params into a store filter.
func parseFilter(r *http.Request) (store.Filter, error) {
	q := r.URL.Query()
	verr := &models.ValidationError{}

	var filter store.Filter
	for _, raw := range utils.ParseQueryList(q, "status") {
		status := models.Status(raw)
		if !status.Valid() {
			verr.Add("status", "status must be one of Pending, Accepted, InProgress, Complete")
			continue
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	for _, raw := range utils.ParseQueryList(q, "category") {
		category := models.Category(raw)
		if !category.Valid() {
			verr.Add("category", "category must be one of Water, Food, Medical, Shelter, Evacuation")
			continue
		}
		filter.Categories = append(filter.Categories, category)
	}

	if len(verr.Fields) > 0 {
		return store.Filter{}, verr
	}
	return filter, nil
}
