package mq

import (
	"context"
	"encoding/json"
	"errors"

	"bsu_chat_server/internal/config"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// AuditConsumer reads the moderation topic and writes every event to the
// application log. It runs in its own consumer group so it never steals
// events from other readers.
type AuditConsumer struct {
	reader *kafka.Reader
}

// NewAuditConsumer returns nil unless eventMode is "kafka".
func NewAuditConsumer(cfg config.KafkaConfig) *AuditConsumer {
	if cfg.EventMode != "kafka" || cfg.HostPort == "" {
		return nil
	}
	return &AuditConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     []string{cfg.HostPort},
			Topic:       cfg.EventTopic,
			GroupID:     "bsu_chat_audit",
			StartOffset: kafka.LastOffset,
		}),
	}
}

// Run blocks until ctx is cancelled.
func (a *AuditConsumer) Run(ctx context.Context) {
	for {
		msg, err := a.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			zap.L().Error("audit consumer read failed", zap.Error(err))
			continue
		}
		var event ModerationEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			zap.L().Warn("audit consumer got malformed event", zap.Int64("offset", msg.Offset), zap.Error(err))
			continue
		}
		zap.L().Info("moderation audit",
			zap.String("type", event.Type),
			zap.String("actor", event.ActorID),
			zap.Uint("target", event.TargetID),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
		)
	}
}

// Close releases the reader.
func (a *AuditConsumer) Close() error {
	return a.reader.Close()
}
