package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"relief-bknd/internal/models"
	"relief-bknd/internal/store"
)

// Analytics derives counts and rates from the current store snapshot.
// No caching: every call re-reads the store so the numbers always
// reflect the latest state.
type Analytics struct {
	store store.Store
}

func NewAnalytics(st store.Store) *Analytics {
	return &Analytics{store: st}
}

// Summary is the admin dashboard projection.
type Summary struct {
	Total          int                     `json:"total"`
	ByStatus       map[models.Status]int   `json:"by_status"`
	ByCategory     map[models.Category]int `json:"by_category"`
	CompletionRate float64                 `json:"completion_rate"`
}

func (a *Analytics) Summary(ctx context.Context) (*Summary, error) {
	all, err := a.store.List(ctx, store.Filter{})
	if err != nil {
		return nil, err
	}

	s := &Summary{
		Total:      len(all),
		ByStatus:   make(map[models.Status]int, len(models.Statuses)),
		ByCategory: make(map[models.Category]int),
	}
	for _, status := range models.Statuses {
		s.ByStatus[status] = 0
	}
	for i := range all {
		s.ByStatus[all[i].Status]++
		s.ByCategory[all[i].Category]++
	}
	if s.Total > 0 {
		s.CompletionRate = float64(s.ByStatus[models.Complete]) / float64(s.Total)
	}
	return s, nil
}

// WriteCSV streams the current snapshot to w in the local-file column
// format, honoring the given filter.
func (a *Analytics) WriteCSV(ctx context.Context, w io.Writer, filter store.Filter) error {
	all, err := a.store.List(ctx, filter)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(store.Header); err != nil {
		return fmt.Errorf("writing export header: %w", err)
	}
	for i := range all {
		if err := cw.Write(store.EncodeRow(&all[i])); err != nil {
			return fmt.Errorf("writing export row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
