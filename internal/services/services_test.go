package services

import (
	"context"
	"fmt"
	"sync"

	"relief-bknd/internal/models"
	"relief-bknd/internal/store"
)

// memStore is an in-memory store.Store for service tests.
type memStore struct {
	mu       sync.Mutex
	requests []models.Request
}

func (m *memStore) Append(ctx context.Context, req *models.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, *req)
	return nil
}

func (m *memStore) Update(ctx context.Context, id string, patch store.Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.requests {
		if m.requests[i].ID != id {
			continue
		}
		if patch.Status != nil {
			m.requests[i].Status = *patch.Status
		}
		if patch.Responder != nil {
			m.requests[i].Responder = *patch.Responder
		}
		if patch.UpdatedAt != nil {
			m.requests[i].UpdatedAt = *patch.UpdatedAt
		}
		return nil
	}
	return fmt.Errorf("%w: %s", models.ErrNotFound, id)
}

func (m *memStore) List(ctx context.Context, filter store.Filter) ([]models.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Request, 0, len(m.requests))
	for _, r := range m.requests {
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, r.Status) {
			continue
		}
		if len(filter.Categories) > 0 && !containsCategory(filter.Categories, r.Category) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func containsStatus(haystack []models.Status, needle models.Status) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func containsCategory(haystack []models.Category, needle models.Category) bool {
	for _, c := range haystack {
		if c == needle {
			return true
		}
	}
	return false
}

// stubGeocoder resolves every address to a fixed point, or fails.
type stubGeocoder struct {
	coords models.Coordinates
	err    error
	calls  int
}

func (g *stubGeocoder) Resolve(ctx context.Context, address string) (models.Coordinates, error) {
	g.calls++
	if g.err != nil {
		return models.Coordinates{}, g.err
	}
	return g.coords, nil
}
