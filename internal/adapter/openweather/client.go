// Package openweather implements the weather provider against the
// OpenWeatherMap current-conditions API.
package openweather

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

// defaultVisibilityKm is assumed when the API omits the visibility field.
const defaultVisibilityKm = 10

// Client implements domain.WeatherProvider using OpenWeatherMap.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates an OpenWeatherMap client.
func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		logger:  logger,
	}
}

// Current fetches current conditions for a coordinate in metric units.
func (c *Client) Current(ctx context.Context, lat, lon float64) (domain.WeatherSnapshot, error) {
	params := url.Values{
		"lat":   {fmt.Sprintf("%.6f", lat)},
		"lon":   {fmt.Sprintf("%.6f", lon)},
		"appid": {c.apiKey},
		"units": {"metric"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.WeatherSnapshot{}, fmt.Errorf("openweather API error: status %d: %s", resp.StatusCode, body)
	}

	var owm response
	if err := json.NewDecoder(resp.Body).Decode(&owm); err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("decode response: %w", err)
	}

	snapshot := domain.WeatherSnapshot{
		Location:     owm.Name,
		Lat:          owm.Coord.Lat,
		Lon:          owm.Coord.Lon,
		TempC:        owm.Main.Temp,
		WindSpeedMS:  owm.Wind.Speed,
		VisibilityKm: defaultVisibilityKm,
	}
	if len(owm.Weather) > 0 {
		snapshot.Condition = owm.Weather[0].Description
	}
	if owm.Visibility != nil {
		// The API reports visibility in metres.
		snapshot.VisibilityKm = float64(*owm.Visibility) / 1000
	}
	return snapshot, nil
}

// OpenWeatherMap API response types.

type response struct {
	Name  string `json:"name"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Visibility *int `json:"visibility"`
}
