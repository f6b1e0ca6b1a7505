package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"relief-bknd/internal/config"
	"relief-bknd/internal/models"
)

func TestOpenFallsBackWithoutCredentials(t *testing.T) {
	cfg := &config.Config{
		RequestsFile: filepath.Join(t.TempDir(), "requests.csv"),
		StoreTimeout: time.Second,
	}

	s, err := Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &CSVStore{}, s)
}

func TestOpenFallsBackOnBadCredential(t *testing.T) {
	cfg := &config.Config{
		ServiceAccountJSON: filepath.Join(t.TempDir(), "missing_credential.json"),
		SheetKey:           "some-sheet-key",
		RequestsFile:       filepath.Join(t.TempDir(), "requests.csv"),
		StoreTimeout:       time.Second,
	}

	s, err := Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &CSVStore{}, s)
}

func TestEncodeDecodeRow(t *testing.T) {
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	req := &models.Request{
		ID:          "abc",
		Category:    models.Medical,
		Name:        "Asha",
		Phone:       "+919876543210",
		Address:     "12 Main St",
		Notes:       "needs insulin",
		Coordinates: &models.Coordinates{Lat: 40.0, Lon: -70.0},
		Status:      models.Accepted,
		Responder:   "V1",
		CreatedAt:   now,
		UpdatedAt:   now.Add(time.Hour),
	}

	row := EncodeRow(req)
	require.Len(t, row, len(Header))

	back, err := DecodeRow(row)
	require.NoError(t, err)
	assert.Equal(t, req.ID, back.ID)
	assert.Equal(t, req.Category, back.Category)
	assert.Equal(t, req.Notes, back.Notes)
	require.NotNil(t, back.Coordinates)
	assert.Equal(t, *req.Coordinates, *back.Coordinates)
	assert.Equal(t, req.Status, back.Status)
	assert.Equal(t, req.Responder, back.Responder)
	assert.True(t, back.CreatedAt.Equal(req.CreatedAt))
	assert.True(t, back.UpdatedAt.Equal(req.UpdatedAt))
}

func TestDecodeRowCoercesBadCoordinates(t *testing.T) {
	req := testRequest("a", models.Water)
	row := EncodeRow(req)
	row[6] = "not-a-number"

	back, err := DecodeRow(row)
	require.NoError(t, err)
	assert.Nil(t, back.Coordinates)
}

func TestDecodeRowShortRow(t *testing.T) {
	_, err := DecodeRow([]string{"only", "three", "cells"})
	assert.Error(t, err)
}
