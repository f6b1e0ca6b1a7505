package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"relief-bknd/internal/models"
)

func TestDistanceZeroForSamePoint(t *testing.T) {
	points := []models.Coordinates{
		{Lat: 0, Lon: 0},
		{Lat: 13.0827, Lon: 80.2707},
		{Lat: -33.8688, Lon: 151.2093},
	}
	for _, p := range points {
		assert.Equal(t, 0.0, Distance(p, p))
	}
}

func TestDistanceSymmetric(t *testing.T) {
	pairs := [][2]models.Coordinates{
		{{Lat: 40.7128, Lon: -74.0060}, {Lat: 51.5074, Lon: -0.1278}},
		{{Lat: 13.0827, Lon: 80.2707}, {Lat: 28.6139, Lon: 77.2090}},
		{{Lat: -90, Lon: 0}, {Lat: 90, Lon: 0}},
	}
	for _, pair := range pairs {
		assert.Equal(t, Distance(pair[0], pair[1]), Distance(pair[1], pair[0]))
	}
}

func TestDistanceKnownValues(t *testing.T) {
	// One degree of longitude on the equator.
	d := Distance(models.Coordinates{Lat: 0, Lon: 0}, models.Coordinates{Lat: 0, Lon: 1})
	assert.InDelta(t, 111.19, d, 0.1)

	// New York to London.
	d = Distance(
		models.Coordinates{Lat: 40.7128, Lon: -74.0060},
		models.Coordinates{Lat: 51.5074, Lon: -0.1278},
	)
	assert.InDelta(t, 5570, d, 20)
}
