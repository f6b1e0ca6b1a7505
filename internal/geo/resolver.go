package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"relief-bknd/internal/config"
	"relief-bknd/internal/models"
)

// Resolver turns free-text addresses into coordinates using the
// Nominatim search API. Lookups are idempotent and have no side
// effects beyond the outbound call.
type Resolver struct {
	baseURL   string
	userAgent string
	client    *http.Client
	attempts  int
}

// NewResolver creates a resolver from config. The HTTP client timeout
// bounds every lookup even when the caller's context has no deadline.
func NewResolver(cfg *config.Config) *Resolver {
	return &Resolver{
		baseURL:   strings.TrimRight(cfg.GeocoderBaseURL, "/"),
		userAgent: cfg.GeocoderUserAgent,
		client:    &http.Client{Timeout: cfg.GeocodeTimeout},
		attempts:  3,
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Resolve geocodes an address. Transport errors are retried with a
// linear backoff; a successful lookup that matches nothing is not.
// Failures wrap models.ErrResolutionFailed so callers can fall back to
// manual coordinate entry.
func (r *Resolver) Resolve(ctx context.Context, address string) (models.Coordinates, error) {
	if strings.TrimSpace(address) == "" {
		return models.Coordinates{}, fmt.Errorf("%w: empty address", models.ErrResolutionFailed)
	}

	var lastErr error
	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return models.Coordinates{}, fmt.Errorf("%w: %v", models.ErrResolutionFailed, ctx.Err())
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		coords, retryable, err := r.lookup(ctx, address)
		if err == nil {
			return coords, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return models.Coordinates{}, lastErr
}

func (r *Resolver) lookup(ctx context.Context, address string) (models.Coordinates, bool, error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return models.Coordinates{}, false, fmt.Errorf("%w: %v", models.ErrResolutionFailed, err)
	}
	// Nominatim's usage policy requires an identifying User-Agent.
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return models.Coordinates{}, true, fmt.Errorf("%w: %v", models.ErrResolutionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Coordinates{}, true, fmt.Errorf("%w: geocoder returned status %d", models.ErrResolutionFailed, resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return models.Coordinates{}, false, fmt.Errorf("%w: decoding response: %v", models.ErrResolutionFailed, err)
	}
	if len(results) == 0 {
		return models.Coordinates{}, false, fmt.Errorf("%w: no match for %q", models.ErrResolutionFailed, address)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return models.Coordinates{}, false, fmt.Errorf("%w: bad latitude %q", models.ErrResolutionFailed, results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return models.Coordinates{}, false, fmt.Errorf("%w: bad longitude %q", models.ErrResolutionFailed, results[0].Lon)
	}

	coords := models.Coordinates{Lat: lat, Lon: lon}
	if !coords.InRange() {
		return models.Coordinates{}, false, fmt.Errorf("%w: coordinates out of range", models.ErrResolutionFailed)
	}
	return coords, false, nil
}
