package mapbox

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/asset-sentinel/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func testClient(baseURL string) *Client {
	return &Client{
		token:      testToken,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		metrics:    testMetrics(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_ReverseCity_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Mapbox expects lon,lat in the path.
		assert.Contains(t, r.URL.Path, "72.877700,19.076000")
		assert.Equal(t, testToken, r.URL.Query().Get("access_token"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "place,locality", r.URL.Query().Get("types"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"features":[{"place_name":"Mumbai, Maharashtra, India","text":"Mumbai"}]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	city, err := c.ReverseCity(context.Background(), 19.076, 72.8777)
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", city)
}

func TestClient_ReverseCity_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"features":[]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	city, err := c.ReverseCity(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, city)
}

func TestClient_ReverseCity_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Not Authorized"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.ReverseCity(context.Background(), 19.076, 72.8777)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestClient_ReverseCity_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.ReverseCity(context.Background(), 19.076, 72.8777)
	require.Error(t, err)
}
