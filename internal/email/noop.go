package email

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/asset-sentinel/internal/domain"
)

// NoopSender logs alerts instead of delivering them.
// Use in development or when SMTP is not configured.
type NoopSender struct {
	logger *slog.Logger
}

// NewNoopSender creates a NoopSender backed by the given logger.
func NewNoopSender(logger *slog.Logger) *NoopSender {
	return &NoopSender{logger: logger}
}

// Send logs the alert and returns nil.
func (n *NoopSender) Send(_ context.Context, recipient string, payload domain.AlertPayload) error {
	n.logger.Info("alert email (noop, not sent)",
		"to", recipient,
		"asset", payload.AssetName,
		"score", payload.Score,
		"location", payload.Location,
		"action", payload.Action,
	)
	return nil
}
