package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relief-bknd/internal/models"
	"relief-bknd/internal/store"
)

func TestSummaryEmptyStore(t *testing.T) {
	a := NewAnalytics(&memStore{})

	s, err := a.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 0.0, s.CompletionRate)
	// Every status present even with no data.
	for _, status := range models.Statuses {
		_, ok := s.ByStatus[status]
		assert.True(t, ok, "status %s missing from summary", status)
	}
}

func TestSummaryCounts(t *testing.T) {
	complete := pendingRequest("c", models.Medical, nil)
	complete.Status = models.Complete
	complete.Responder = "V1"
	accepted := pendingRequest("b", models.Water, nil)
	accepted.Status = models.Accepted
	accepted.Responder = "V2"

	st := &memStore{requests: []models.Request{
		pendingRequest("a", models.Water, nil),
		accepted,
		complete,
		pendingRequest("d", models.Food, nil),
	}}
	a := NewAnalytics(st)

	s, err := a.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.ByStatus[models.Pending])
	assert.Equal(t, 1, s.ByStatus[models.Accepted])
	assert.Equal(t, 0, s.ByStatus[models.InProgress])
	assert.Equal(t, 1, s.ByStatus[models.Complete])
	assert.Equal(t, 2, s.ByCategory[models.Water])
	assert.Equal(t, 1, s.ByCategory[models.Medical])
	assert.InDelta(t, 0.25, s.CompletionRate, 1e-9)
	assert.GreaterOrEqual(t, s.CompletionRate, 0.0)
	assert.LessOrEqual(t, s.CompletionRate, 1.0)
}

func TestSummaryReflectsLatestState(t *testing.T) {
	st := &memStore{}
	a := NewAnalytics(st)
	ctx := context.Background()

	s, err := a.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Total)

	require.NoError(t, st.Append(ctx, &models.Request{ID: "a", Category: models.Water, Status: models.Pending}))

	s, err = a.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Total)
}

func TestWriteCSV(t *testing.T) {
	st := &memStore{requests: []models.Request{
		pendingRequest("a", models.Water, &models.Coordinates{Lat: 1, Lon: 2}),
		pendingRequest("b", models.Medical, nil),
	}}
	a := NewAnalytics(st)

	var buf bytes.Buffer
	require.NoError(t, a.WriteCSV(context.Background(), &buf, store.Filter{}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, store.Header, rows[0])
	assert.Equal(t, "a", rows[1][0])
	assert.Equal(t, "b", rows[2][0])

	// Filtered export only carries matching rows.
	buf.Reset()
	require.NoError(t, a.WriteCSV(context.Background(), &buf,
		store.Filter{Categories: []models.Category{models.Medical}}))
	rows, err = csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "b", rows[1][0])
}
