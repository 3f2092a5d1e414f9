package newsapi

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

const articlesBody = `{
	"status": "ok",
	"articles": [
		{
			"source": {"name": "Reuters"},
			"title": "Port workers announce strike",
			"description": "Operations expected to halt this week.",
			"url": "https://example.com/strike",
			"publishedAt": "2026-03-01T08:30:00Z"
		},
		{
			"source": {"name": ""},
			"title": "[Removed]",
			"description": "",
			"url": "https://removed.example",
			"publishedAt": "2026-03-01T07:00:00Z"
		},
		{
			"source": {"name": "Local Wire"},
			"title": "Flooding closes highway",
			"description": "",
			"url": "https://example.com/flood",
			"publishedAt": "not-a-timestamp"
		}
	]
}`

func TestClient_Search_ScopedQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testAPIKey, r.Header.Get("X-Api-Key"))
		assert.Equal(t, `"logistics supply chain" AND "Mumbai"`, r.URL.Query().Get("q"))
		assert.Equal(t, "title,description", r.URL.Query().Get("searchIn"))
		assert.Equal(t, "publishedAt", r.URL.Query().Get("sortBy"))
		assert.Equal(t, "en", r.URL.Query().Get("language"))
		assert.Equal(t, "100", r.URL.Query().Get("pageSize"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(articlesBody))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	items, err := c.Search(context.Background(), "logistics supply chain", "Mumbai")
	require.NoError(t, err)

	// The delisted article is dropped, order is preserved.
	require.Len(t, items, 2)
	assert.Equal(t, "Port workers announce strike", items[0].Headline)
	assert.Equal(t, "Reuters", items[0].Source)
	assert.Equal(t, "https://example.com/strike", items[0].URL)
	assert.Equal(t, time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC), items[0].PublishedAt)

	assert.Equal(t, "Flooding closes highway", items[1].Headline)
	assert.True(t, items[1].PublishedAt.IsZero(), "unparseable timestamp left zero")
}

func TestClient_Search_BroadQueryOmitsLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `"logistics supply chain"`, r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "ok", "articles": []}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	items, err := c.Search(context.Background(), "logistics supply chain", "")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestClient_Search_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"status":"error","code":"rateLimited"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Search(context.Background(), "topic", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestClient_Search_APIStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Search(context.Background(), "topic", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apiKeyInvalid")
}
