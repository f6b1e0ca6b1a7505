package services

import (
	"context"
	"sort"

	"relief-bknd/internal/geo"
	"relief-bknd/internal/models"
	"relief-bknd/internal/store"
)

// Matcher ranks open requests by proximity to a volunteer.
type Matcher struct {
	store store.Store
}

func NewMatcher(st store.Store) *Matcher {
	return &Matcher{store: st}
}

// MatchOptions narrows Nearby results. Zero values impose no limit.
type MatchOptions struct {
	Categories    []models.Category
	MaxDistanceKM float64
	Limit         int
}

// Match pairs a pending request with its distance from the volunteer.
type Match struct {
	Request    models.Request `json:"request"`
	DistanceKM float64        `json:"distance_km"`
}

// Nearby returns pending requests sorted by ascending distance from
// origin. Requests without coordinates are skipped — they cannot be
// ranked. Ties keep insertion order.
func (m *Matcher) Nearby(ctx context.Context, origin models.Coordinates, opts MatchOptions) ([]Match, error) {
	if !origin.InRange() {
		verr := &models.ValidationError{}
		verr.Add("coordinates", "latitude must be -90..90 and longitude -180..180")
		return nil, verr
	}

	pending, err := m.store.List(ctx, store.Filter{
		Statuses:   []models.Status{models.Pending},
		Categories: opts.Categories,
	})
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(pending))
	for _, req := range pending {
		if req.Coordinates == nil {
			continue
		}
		d := geo.Distance(origin, *req.Coordinates)
		if opts.MaxDistanceKM > 0 && d > opts.MaxDistanceKM {
			continue
		}
		matches = append(matches, Match{Request: req, DistanceKM: d})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].DistanceKM < matches[j].DistanceKM
	})

	if opts.Limit > 0 && len(matches) > opts.Limit {
		matches = matches[:opts.Limit]
	}
	return matches, nil
}
