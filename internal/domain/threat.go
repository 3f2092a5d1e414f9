package domain

import "time"

// ThreatItem is one news item as returned by the news provider. The
// provider does not guarantee deduplication.
type ThreatItem struct {
	Headline    string    `json:"headline"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	URL         string    `json:"url"`
	Summary     string    `json:"summary"`
}

// Severity labels for risk assessments. ERROR is reserved for pipeline
// failure and always pairs with a zero score.
const (
	SeverityLow      = "LOW"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
	SeverityError    = "ERROR"
)

// Classification is the raw structured result from the classification
// capability, before importance post-processing.
type Classification struct {
	RiskScore               int     `json:"risk_score"`
	Severity                string  `json:"severity"`
	Reasoning               string  `json:"reasoning"`
	Action                  string  `json:"action"`
	EstimatedImpactRadiusKm float64 `json:"estimated_impact_radius_km"`
}

// RiskAssessment is the final fused assessment for one threat item.
type RiskAssessment struct {
	RiskScore               int     `json:"risk_score"` // always in [0,100]
	Severity                string  `json:"severity"`
	Reasoning               string  `json:"reasoning"`
	Action                  string  `json:"action"`
	EstimatedImpactRadiusKm float64 `json:"estimated_impact_radius_km"`

	// ImpactedAsset is the human-readable label of the primary target (or
	// the general supply chain context when no asset was in range).
	ImpactedAsset string `json:"impacted_asset"`

	// Failed marks a synthetic assessment produced because classification
	// failed. It keeps "assessment failed" distinguishable from
	// "confirmed safe", which both carry RiskScore 0.
	Failed bool `json:"failed,omitempty"`
}

// ScoredThreat pairs a threat item with its assessment.
type ScoredThreat struct {
	Item       ThreatItem     `json:"item"`
	Assessment RiskAssessment `json:"assessment"`
}
