package domain

import "time"

// AnalysisRun is one asset's evaluation within a scan cycle.
type AnalysisRun struct {
	ID        string          `json:"id,omitempty"`
	AssetID   string          `json:"asset_id"`
	AssetName string          `json:"asset_name"`
	RiskTopic string          `json:"risk_topic"`
	Weather   WeatherSnapshot `json:"weather"`
	Threats   []ScoredThreat  `json:"threats"`

	// MaxRiskScore is the maximum risk score across the scored threats,
	// or 0 when none were scored.
	MaxRiskScore int       `json:"max_risk_score"`
	AnalyzedAt   time.Time `json:"analyzed_at"`
}

// NewAnalysisRun assembles a run from scored threats, computing the max
// risk reduction and stamping the current time.
func NewAnalysisRun(asset Asset, topic string, weather WeatherSnapshot, threats []ScoredThreat) AnalysisRun {
	return AnalysisRun{
		AssetID:      asset.ID,
		AssetName:    asset.Name,
		RiskTopic:    topic,
		Weather:      weather,
		Threats:      threats,
		MaxRiskScore: MaxRiskScore(threats),
		AnalyzedAt:   clock.Now().UTC(),
	}
}

// MaxRiskScore returns the maximum risk score across scored threats, or 0
// for an empty slice.
func MaxRiskScore(threats []ScoredThreat) int {
	maxScore := 0
	for _, t := range threats {
		if t.Assessment.RiskScore > maxScore {
			maxScore = t.Assessment.RiskScore
		}
	}
	return maxScore
}

// TopThreat returns the highest-scoring threat of a run, or nil when the
// run has none. Ties keep provider order (first wins).
func (r AnalysisRun) TopThreat() *ScoredThreat {
	if i := r.TopThreatIndex(); i >= 0 {
		return &r.Threats[i]
	}
	return nil
}

// TopThreatIndex returns the index of the highest-scoring threat, or -1
// when the run has none. Ties keep provider order (first wins).
func (r AnalysisRun) TopThreatIndex() int {
	top := -1
	for i := range r.Threats {
		if top < 0 || r.Threats[i].Assessment.RiskScore > r.Threats[top].Assessment.RiskScore {
			top = i
		}
	}
	return top
}

// Alert statuses recorded after a dispatch attempt.
const (
	AlertStatusSent   = "sent"
	AlertStatusFailed = "failed"
)

// Alert records one notification dispatch outcome.
type Alert struct {
	ID        string    `json:"id,omitempty"`
	ThreatID  *string   `json:"threat_id,omitempty"`
	Channel   string    `json:"channel"`
	Recipient string    `json:"recipient"`
	Status    string    `json:"status"`
	SentAt    time.Time `json:"sent_at"`
}

// NewAlert builds an alert record stamped with the current time.
func NewAlert(threatID *string, channel, recipient, status string) Alert {
	return Alert{
		ThreatID:  threatID,
		Channel:   channel,
		Recipient: recipient,
		Status:    status,
		SentAt:    clock.Now().UTC(),
	}
}
