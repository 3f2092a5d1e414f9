package kafka

import (
	"testing"
	"time"

	"github.com/couchcryptid/asset-sentinel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	run := domain.AnalysisRun{
		ID:           "run-1",
		AssetID:      "MUM-WH-01",
		AssetName:    "Mumbai Central Warehouse",
		RiskTopic:    "logistics supply chain",
		MaxRiskScore: 87,
		AnalyzedAt:   now,
		Threats: []domain.ScoredThreat{{
			Item:       domain.ThreatItem{Headline: "Port strike announced"},
			Assessment: domain.RiskAssessment{RiskScore: 87, Severity: domain.SeverityHigh},
		}},
	}

	msg, err := serializeToMessage(run)
	require.NoError(t, err)

	assert.Equal(t, []byte("MUM-WH-01"), msg.Key)
	assert.Contains(t, string(msg.Value), `"max_risk_score":87`)
	assert.Contains(t, string(msg.Value), "Port strike announced")
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "max_risk_score", msg.Headers[0].Key)
	assert.Equal(t, []byte("87"), msg.Headers[0].Value)
	assert.Equal(t, "analyzed_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}
