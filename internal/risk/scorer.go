// Package risk fuses a threat item, current weather, and asset proximity
// into a bounded risk assessment via the classification capability.
package risk

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/asset-sentinel/internal/domain"
	"github.com/couchcryptid/asset-sentinel/internal/observability"
)

// GeneralContext labels an assessment scored without a specific asset in
// range of the event.
const GeneralContext = "General Supply Chain (No specific asset in range)"

// amplifyThreshold is the raw score above which the importance multiplier
// applies. Scores at or below it pass through unamplified.
const amplifyThreshold = 20

// Scorer produces RiskAssessments for threat items.
type Scorer struct {
	classifier domain.Classifier
	timeout    time.Duration
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewScorer creates a Scorer. The timeout bounds each classification call.
func NewScorer(classifier domain.Classifier, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Scorer {
	return &Scorer{
		classifier: classifier,
		timeout:    timeout,
		logger:     logger,
		metrics:    metrics,
	}
}

// Score assesses one threat item against the registry snapshot. The event
// centre is the weather snapshot's coordinate (0,0 when weather is
// unavailable — degraded mode, not an error). Never returns an error: a
// classification failure yields a synthetic zero-score ERROR assessment.
func (s *Scorer) Score(ctx context.Context, reg *domain.Registry, threat domain.ThreatItem, weather domain.WeatherSnapshot) domain.RiskAssessment {
	impacted := reg.Impacted(weather.Lat, weather.Lon)

	label := GeneralContext
	multiplier := 1.0
	if len(impacted) > 0 {
		primary := impacted[0]
		label = fmt.Sprintf("%s (%s) - %.2fkm away", primary.Asset.Name, primary.Asset.Category, primary.DistanceKm)
		multiplier = 1.0 + float64(primary.Asset.Importance-5)*0.1
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.metrics.ThreatsScored.Inc()
	cls, err := s.classifier.Classify(cctx, buildPrompt(label, weather, threat))
	if err != nil {
		s.metrics.ClassificationErrors.Inc()
		s.logger.Warn("classification failed", "headline", threat.Headline, "error", err)
		return domain.RiskAssessment{
			RiskScore:     0,
			Severity:      domain.SeverityError,
			Reasoning:     err.Error(),
			Action:        "Check Logs",
			ImpactedAsset: "System Error",
			Failed:        true,
		}
	}

	score := cls.RiskScore
	if score < 0 {
		score = 0
	}
	if score > amplifyThreshold {
		// Truncation toward zero, not rounding.
		score = int(float64(score) * multiplier)
	}
	if score > 100 {
		score = 100
	}

	return domain.RiskAssessment{
		RiskScore:               score,
		Severity:                cls.Severity,
		Reasoning:               cls.Reasoning,
		Action:                  cls.Action,
		EstimatedImpactRadiusKm: cls.EstimatedImpactRadiusKm,
		ImpactedAsset:           label,
	}
}

func buildPrompt(target string, weather domain.WeatherSnapshot, threat domain.ThreatItem) string {
	summary := threat.Summary
	if summary == "" {
		summary = threat.Headline
	}

	return fmt.Sprintf(`You are a Security Operations Center AI.

TARGET ASSET: %s

LOCAL WEATHER: %s

NEWS ALERT:
Headline: %s
Summary: %s

TASK:
Assess if this news poses a physical or operational threat to the TARGET ASSET.
- If the target is "General Supply Chain", be conservative.
- If the target is a specific facility, be highly sensitive to physical threats (fire, riot, flood).
- Estimate the "Impact Radius" of the event in km (e.g., a massive explosion might impact 10km, a petty theft 0km).`,
		target, weather.Summary(), threat.Headline, summary)
}
