package openai

import (
	"context"
	"encoding/json"
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
		model:      "gpt-4o-mini",
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func completionWith(content string) string {
	resp := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestClient_Classify_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+testAPIKey, r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "threat intel here", req.Messages[1].Content)
		require.NotNil(t, req.ResponseFormat)
		assert.Equal(t, "json_object", req.ResponseFormat.Type)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionWith(`{
			"risk_score": 85,
			"severity": "CRITICAL",
			"reasoning": "Direct fire threat near the warehouse.",
			"recommended_action": "Evacuate and reroute shipments.",
			"estimated_impact_radius_km": 4.5
		}`)))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	got, err := c.Classify(context.Background(), "threat intel here")
	require.NoError(t, err)

	assert.Equal(t, 85, got.RiskScore)
	assert.Equal(t, "CRITICAL", got.Severity)
	assert.Equal(t, "Direct fire threat near the warehouse.", got.Reasoning)
	assert.Equal(t, "Evacuate and reroute shipments.", got.Action)
	assert.Equal(t, 4.5, got.EstimatedImpactRadiusKm)
}

func TestClient_Classify_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached"}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Classify(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestClient_Classify_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Classify(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestClient_Classify_MalformedAssessment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionWith("sorry, I cannot help with that")))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Classify(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse assessment")
}

func TestClient_Classify_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	c := testClient(srv.URL)
	_, err := c.Classify(ctx, "prompt")
	require.Error(t, err)
}
