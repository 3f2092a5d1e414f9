package domain

import (
	"context"
	"errors"
)

// ErrNotFound marks lookups for records that do not exist.
var ErrNotFound = errors.New("not found")

// WeatherProvider fetches current conditions for a coordinate.
type WeatherProvider interface {
	Current(ctx context.Context, lat, lon float64) (WeatherSnapshot, error)
}

// NewsProvider searches news items for a topic. An empty location searches
// without a geographic scope. Results arrive in provider order (assumed
// newest first, not re-sorted here).
type NewsProvider interface {
	Search(ctx context.Context, topic, location string) ([]ThreatItem, error)
}

// Geocoder resolves a coordinate to a city label. An empty label with a
// nil error means the provider found nothing; callers must tolerate both.
type Geocoder interface {
	ReverseCity(ctx context.Context, lat, lon float64) (string, error)
}

// Classifier maps a natural-language prompt to a structured risk
// classification. Calls are synchronous, best-effort, and fallible.
type Classifier interface {
	Classify(ctx context.Context, prompt string) (Classification, error)
}

// Store is the persistence collaborator. SaveAnalysisRun and
// SaveThreatItems are two logical writes; a crash between them leaves an
// orphaned run that readers treat as zero threats. SaveThreatItems
// returns the generated item ids in input order so alert records can
// reference the threat that triggered them.
type Store interface {
	ListAssets(ctx context.Context) ([]Asset, error)
	SaveAnalysisRun(ctx context.Context, run AnalysisRun) (string, error)
	SaveThreatItems(ctx context.Context, runID string, threats []ScoredThreat) ([]string, error)
	SaveAlert(ctx context.Context, alert Alert) (string, error)
	LatestAnalysis(ctx context.Context, assetID string) (*AnalysisRun, error)
}

// AlertPayload is the notification content for one triggered alert.
type AlertPayload struct {
	AssetName string
	Score     int
	Location  string
	Summary   string
	Action    string
}

// AlertSender delivers alert notifications.
type AlertSender interface {
	Send(ctx context.Context, recipient string, payload AlertPayload) error
}
