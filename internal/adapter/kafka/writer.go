// Package kafka publishes completed analysis runs to a sink topic for
// downstream consumers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/asset-sentinel/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces analysis run messages to a Kafka topic.
// It implements monitor.RunPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes one analysis run and writes it to the sink topic.
// Messages are keyed by asset id so per-asset ordering is preserved.
func (w *Writer) Publish(ctx context.Context, run domain.AnalysisRun) error {
	msg, err := serializeToMessage(run)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an AnalysisRun into a Kafka message.
func serializeToMessage(run domain.AnalysisRun) (kafkago.Message, error) {
	data, err := json.Marshal(run)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize analysis run: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(run.AssetID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "max_risk_score", Value: []byte(fmt.Sprintf("%d", run.MaxRiskScore))},
			{Key: "analyzed_at", Value: []byte(run.AnalyzedAt.Format(time.RFC3339))},
		},
	}, nil
}
