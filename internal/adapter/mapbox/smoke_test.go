//go:build mapbox

package mapbox

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/asset-sentinel/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real Mapbox API and require a valid MAPBOX_TOKEN env var.
// Run with: go test -tags=mapbox ./internal/adapter/mapbox/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Fatal("MAPBOX_TOKEN must be set to run smoke tests")
	}
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://api.mapbox.com/geocoding/v5/mapbox.places",
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSmoke_ReverseCity(t *testing.T) {
	c := smokeClient(t)

	// Mumbai coordinates
	city, err := c.ReverseCity(context.Background(), 19.076, 72.8777)
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", city)
}

func TestSmoke_ReverseCity_OpenOcean(t *testing.T) {
	c := smokeClient(t)

	// Middle of the Indian Ocean: no place expected, but no error either.
	city, err := c.ReverseCity(context.Background(), -20.0, 80.0)
	require.NoError(t, err)
	assert.Empty(t, city)
}

func TestSmoke_CachedGeocoder(t *testing.T) {
	c := smokeClient(t)
	cached := NewCachedGeocoder(c, 10, observability.NewMetricsForTesting())

	// First call: cache miss, real API call.
	c1, err := cached.ReverseCity(context.Background(), 28.7041, 77.1025)
	require.NoError(t, err)
	assert.NotEmpty(t, c1)

	// Second call: cache hit, no API call.
	c2, err := cached.ReverseCity(context.Background(), 28.7041, 77.1025)
	require.NoError(t, err)
	assert.Equal(t, c1, c2)
}
