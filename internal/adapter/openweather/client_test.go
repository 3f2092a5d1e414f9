package openweather

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-key"

func testClient(baseURL string) *Client {
	return &Client{
		apiKey:     testAPIKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_Current_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testAPIKey, r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "19.076000", r.URL.Query().Get("lat"))
		assert.Equal(t, "72.877700", r.URL.Query().Get("lon"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"name": "Mumbai",
			"coord": {"lat": 19.076, "lon": 72.8777},
			"main": {"temp": 31.4},
			"wind": {"speed": 6.2},
			"weather": [{"main": "Haze", "description": "haze"}],
			"visibility": 4000
		}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	got, err := c.Current(context.Background(), 19.076, 72.8777)
	require.NoError(t, err)

	assert.Equal(t, "Mumbai", got.Location)
	assert.Equal(t, 19.076, got.Lat)
	assert.Equal(t, 72.8777, got.Lon)
	assert.Equal(t, 31.4, got.TempC)
	assert.Equal(t, 6.2, got.WindSpeedMS)
	assert.Equal(t, "haze", got.Condition)
	assert.Equal(t, 4.0, got.VisibilityKm)
}

func TestClient_Current_MissingVisibilityDefaultsTo10km(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name": "Delhi", "coord": {"lat": 28.7, "lon": 77.1}, "main": {"temp": 40}, "wind": {"speed": 2}, "weather": []}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	got, err := c.Current(context.Background(), 28.7, 77.1)
	require.NoError(t, err)

	assert.Equal(t, 10.0, got.VisibilityKm)
	assert.Empty(t, got.Condition)
}

func TestClient_Current_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Current(context.Background(), 19.076, 72.8777)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestClient_Current_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.Current(context.Background(), 19.076, 72.8777)
	require.Error(t, err)
}
