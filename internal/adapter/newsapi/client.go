// Package newsapi implements the news provider against the NewsAPI
// "everything" endpoint.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/asset-sentinel/internal/domain"
)

// Client implements domain.NewsProvider using NewsAPI.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a NewsAPI client.
func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://newsapi.org/v2/everything",
		logger:  logger,
	}
}

// Search fetches recent articles for the topic. A non-empty location
// narrows the query to items mentioning both the topic and the place.
func (c *Client) Search(ctx context.Context, topic, location string) ([]domain.ThreatItem, error) {
	query := fmt.Sprintf("%q", topic)
	if location != "" {
		query = fmt.Sprintf("%q AND %q", topic, location)
	}

	params := url.Values{
		"q":        {query},
		"searchIn": {"title,description"},
		"sortBy":   {"publishedAt"},
		"language": {"en"},
		"pageSize": {"100"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("newsapi error: status %d: %s", resp.StatusCode, body)
	}

	var news response
	if err := json.NewDecoder(resp.Body).Decode(&news); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if news.Status != "ok" {
		return nil, fmt.Errorf("newsapi error: %s: %s", news.Code, news.Message)
	}

	items := make([]domain.ThreatItem, 0, len(news.Articles))
	for _, a := range news.Articles {
		// Delisted articles come back with placeholder titles.
		if a.Title == "" || a.Title == "[Removed]" {
			continue
		}
		item := domain.ThreatItem{
			Headline: a.Title,
			Source:   a.Source.Name,
			URL:      a.URL,
			Summary:  a.Description,
		}
		if ts, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
			item.PublishedAt = ts
		}
		items = append(items, item)
	}
	return items, nil
}

// NewsAPI response types.

type response struct {
	Status   string    `json:"status"`
	Code     string    `json:"code"`
	Message  string    `json:"message"`
	Articles []article `json:"articles"`
}

type article struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}
