// Package pipeline runs the per-asset analysis: weather fetch, news search
// with recall widening, threat scoring, and max-risk reduction.
package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/couchcryptid/asset-sentinel/internal/domain"
	"github.com/couchcryptid/asset-sentinel/internal/observability"
)

const (
	// minLocalResults is the result count below which the news search is
	// widened from "topic AND city" to the topic alone.
	minLocalResults = 3

	// maxScoredItems bounds how many news items are scored per asset.
	maxScoredItems = 10
)

// ErrAssetNotLocated is returned for assets without a coordinate.
var ErrAssetNotLocated = errors.New("asset has no coordinate")

// ThreatScorer scores one threat item against the registry snapshot.
type ThreatScorer interface {
	Score(ctx context.Context, reg *domain.Registry, threat domain.ThreatItem, weather domain.WeatherSnapshot) domain.RiskAssessment
}

// Analyzer evaluates one asset per call. Provider failures degrade to
// empty results rather than aborting; only a missing coordinate or a
// cancelled context produce an error.
type Analyzer struct {
	weather  domain.WeatherProvider
	news     domain.NewsProvider
	geocoder domain.Geocoder // nil disables city resolution
	scorer   ThreatScorer
	topic    string
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewAnalyzer creates an Analyzer. Pass a nil geocoder to skip city
// resolution (the asset name scopes the news query instead).
func NewAnalyzer(weather domain.WeatherProvider, news domain.NewsProvider, geocoder domain.Geocoder, scorer ThreatScorer, topic string, logger *slog.Logger, metrics *observability.Metrics) *Analyzer {
	return &Analyzer{
		weather:  weather,
		news:     news,
		geocoder: geocoder,
		scorer:   scorer,
		topic:    topic,
		logger:   logger,
		metrics:  metrics,
	}
}

// AnalyzeAsset produces the AnalysisRun for one located asset. A weather
// or news provider failure yields a run with empty results and max risk 0.
func (a *Analyzer) AnalyzeAsset(ctx context.Context, reg *domain.Registry, asset domain.Asset) (domain.AnalysisRun, error) {
	if !asset.Located() {
		return domain.AnalysisRun{}, ErrAssetNotLocated
	}

	weather, err := a.weather.Current(ctx, *asset.Lat, *asset.Lon)
	if err != nil {
		if ctx.Err() != nil {
			return domain.AnalysisRun{}, ctx.Err()
		}
		a.metrics.ProviderErrors.WithLabelValues("weather").Inc()
		a.logger.Warn("weather fetch failed, recording empty run",
			"asset", asset.Name, "error", err)
		return domain.NewAnalysisRun(asset, a.topic, domain.WeatherSnapshot{}, nil), nil
	}

	city := a.resolveCity(ctx, asset)
	items := a.searchNews(ctx, city)

	var threats []domain.ScoredThreat
	for i, item := range items {
		if i >= maxScoredItems {
			break
		}
		if ctx.Err() != nil {
			return domain.AnalysisRun{}, ctx.Err()
		}
		assessment := a.scorer.Score(ctx, reg, item, weather)
		threats = append(threats, domain.ScoredThreat{Item: item, Assessment: assessment})
	}

	return domain.NewAnalysisRun(asset, a.topic, weather, threats), nil
}

// resolveCity returns a city label for the asset's coordinate, falling
// back to the asset name when geocoding is disabled, fails, or finds
// nothing.
func (a *Analyzer) resolveCity(ctx context.Context, asset domain.Asset) string {
	if a.geocoder == nil {
		return asset.Name
	}
	city, err := a.geocoder.ReverseCity(ctx, *asset.Lat, *asset.Lon)
	if err != nil {
		a.metrics.ProviderErrors.WithLabelValues("geocoder").Inc()
		a.logger.Warn("reverse geocoding failed", "asset", asset.Name, "error", err)
		return asset.Name
	}
	if city == "" {
		return asset.Name
	}
	return city
}

// searchNews fetches location-scoped news, widening to the bare topic when
// results are sparse. The two result sets are never merged: whichever is
// larger wins.
func (a *Analyzer) searchNews(ctx context.Context, city string) []domain.ThreatItem {
	local, err := a.news.Search(ctx, a.topic, city)
	if err != nil {
		a.metrics.ProviderErrors.WithLabelValues("news").Inc()
		a.logger.Warn("news search failed", "topic", a.topic, "location", city, "error", err)
		local = nil
	}
	if len(local) >= minLocalResults {
		return local
	}

	broad, err := a.news.Search(ctx, a.topic, "")
	if err != nil {
		a.metrics.ProviderErrors.WithLabelValues("news").Inc()
		a.logger.Warn("broad news search failed", "topic", a.topic, "error", err)
		return local
	}
	if len(broad) > len(local) {
		return broad
	}
	return local
}
