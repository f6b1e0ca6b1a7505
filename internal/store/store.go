package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"relief-bknd/internal/config"
	"relief-bknd/internal/models"
)

// Store is the single durable source of truth for requests. Two
// backends implement it: a Google Sheets document and a local CSV
// file. Which one is active is decided once at startup by Open and
// never re-examined, so read/write semantics stay consistent within a
// session.
//
// Consistency is last-writer-wins per record id: concurrent updates to
// distinct ids are independent, concurrent updates to the same id are
// not ordered or merged. Accepted limitation for the cooperative
// single-admin usage model.
type Store interface {
	// Append persists a new record in insertion order.
	Append(ctx context.Context, req *models.Request) error
	// Update applies a partial update to the record with the given id,
	// returning models.ErrNotFound when it does not exist.
	Update(ctx context.Context, id string, patch Patch) error
	// List returns a snapshot, oldest first, optionally filtered.
	List(ctx context.Context, filter Filter) ([]models.Request, error)
}

// Patch is a partial update; nil fields are left unchanged.
type Patch struct {
	Status    *models.Status
	Responder *string
	UpdatedAt *time.Time
}

// Filter narrows List results. Empty slices match everything.
type Filter struct {
	Statuses   []models.Status
	Categories []models.Category
}

func (f Filter) matches(r *models.Request) bool {
	if len(f.Statuses) > 0 {
		ok := false
		for _, s := range f.Statuses {
			if r.Status == s {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if len(f.Categories) > 0 {
		ok := false
		for _, c := range f.Categories {
			if r.Category == c {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// Open selects the backend for the process lifetime: the Sheets store
// when a credential and sheet key are configured and it initializes,
// the CSV store otherwise. The fallback is silent by design — it is
// logged, not surfaced.
func Open(ctx context.Context, cfg *config.Config, logr *zap.Logger) (Store, error) {
	if cfg.ServiceAccountJSON != "" && cfg.SheetKey != "" {
		s, err := NewSheetsStore(ctx, cfg)
		if err == nil {
			logr.Info("using Google Sheets store", zap.String("sheet_key", cfg.SheetKey))
			return s, nil
		}
		logr.Warn("sheets store unavailable, falling back to local file",
			zap.Error(err), zap.String("path", cfg.RequestsFile))
	} else {
		logr.Warn("sheets credentials not configured, using local file store",
			zap.String("path", cfg.RequestsFile))
	}

	cs, err := NewCSVStore(cfg.RequestsFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	logr.Info("using local file store", zap.String("path", cfg.RequestsFile))
	return cs, nil
}

// Header is the shared column order of both backends: the CSV header
// row and the Sheets worksheet columns.
var Header = []string{
	"id", "category", "name", "phone", "address", "notes",
	"lat", "lon", "status", "responder", "created_at", "updated_at",
}

// EncodeRow serializes a request into the Header column order.
func EncodeRow(r *models.Request) []string {
	lat, lon := "", ""
	if r.Coordinates != nil {
		lat = strconv.FormatFloat(r.Coordinates.Lat, 'f', -1, 64)
		lon = strconv.FormatFloat(r.Coordinates.Lon, 'f', -1, 64)
	}
	return []string{
		r.ID,
		string(r.Category),
		r.Name,
		r.Phone,
		r.Address,
		r.Notes,
		lat,
		lon,
		string(r.Status),
		r.Responder,
		r.CreatedAt.UTC().Format(time.RFC3339),
		r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// DecodeRow parses a row in the Header column order. Unparseable
// coordinates are coerced to nil rather than rejected, matching how
// snapshots tolerate records whose geocoding failed.
func DecodeRow(row []string) (models.Request, error) {
	if len(row) < len(Header) {
		return models.Request{}, fmt.Errorf("row has %d columns, want %d", len(row), len(Header))
	}

	r := models.Request{
		ID:        row[0],
		Category:  models.Category(row[1]),
		Name:      row[2],
		Phone:     row[3],
		Address:   row[4],
		Notes:     row[5],
		Status:    models.Status(row[8]),
		Responder: row[9],
	}

	if row[6] != "" && row[7] != "" {
		lat, latErr := strconv.ParseFloat(row[6], 64)
		lon, lonErr := strconv.ParseFloat(row[7], 64)
		if latErr == nil && lonErr == nil {
			r.Coordinates = &models.Coordinates{Lat: lat, Lon: lon}
		}
	}

	if t, err := time.Parse(time.RFC3339, row[10]); err == nil {
		r.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, row[11]); err == nil {
		r.UpdatedAt = t
	}

	return r, nil
}

func applyPatch(r *models.Request, patch Patch) {
	if patch.Status != nil {
		r.Status = *patch.Status
	}
	if patch.Responder != nil {
		r.Responder = *patch.Responder
	}
	if patch.UpdatedAt != nil {
		r.UpdatedAt = *patch.UpdatedAt
	}
}
