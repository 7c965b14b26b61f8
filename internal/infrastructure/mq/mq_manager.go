package mq

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"bsu_chat_server/internal/config"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// NewPublisher returns a kafka publisher when eventMode is "kafka" and a
// log-only publisher otherwise.
func NewPublisher(cfg config.KafkaConfig) EventPublisher {
	if cfg.EventMode != "kafka" || cfg.HostPort == "" {
		return &LogPublisher{}
	}
	p := &KafkaPublisher{cfg: cfg}
	p.init()
	return p
}

// KafkaPublisher writes events keyed by target id, so all events about one
// user land in the same partition.
type KafkaPublisher struct {
	cfg    config.KafkaConfig
	writer *kafka.Writer
}

func (k *KafkaPublisher) init() {
	k.createTopic()
	k.writer = &kafka.Writer{
		Addr:                   kafka.TCP(k.cfg.HostPort),
		Topic:                  k.cfg.EventTopic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           time.Duration(k.cfg.TimeoutSecs) * time.Second,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: false,
	}
}

// createTopic is best effort; an existing topic is fine.
func (k *KafkaPublisher) createTopic() {
	conn, err := kafka.Dial("tcp", k.cfg.HostPort)
	if err != nil {
		zap.L().Warn("kafka dial failed, topic not created", zap.String("addr", k.cfg.HostPort), zap.Error(err))
		return
	}
	defer conn.Close()

	partitions := k.cfg.Partition
	if partitions <= 0 {
		partitions = 1
	}
	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             k.cfg.EventTopic,
		NumPartitions:     partitions,
		ReplicationFactor: 1,
	})
	if err != nil {
		zap.L().Warn("kafka create topic failed", zap.String("topic", k.cfg.EventTopic), zap.Error(err))
	}
}

// Publish implements EventPublisher.
func (k *KafkaPublisher) Publish(ctx context.Context, event ModerationEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.TargetID), 10)),
		Value: value,
		Time:  event.At,
	})
}

// Close implements EventPublisher.
func (k *KafkaPublisher) Close() error {
	if k.writer == nil {
		return nil
	}
	return k.writer.Close()
}

// LogPublisher records events in the application log only.
type LogPublisher struct{}

// Publish implements EventPublisher.
func (LogPublisher) Publish(_ context.Context, event ModerationEvent) error {
	zap.L().Info("moderation event",
		zap.String("type", event.Type),
		zap.String("actor", event.ActorID),
		zap.Uint("target", event.TargetID),
		zap.String("detail", event.Detail),
	)
	return nil
}

// Close implements EventPublisher.
func (LogPublisher) Close() error { return nil }

// PublishAsync sends event in the background with the configured timeout
// and only logs a failure.
func PublishAsync(p EventPublisher, event ModerationEvent, timeout time.Duration) {
	if p == nil {
		return
	}
	if event.At.IsZero() {
		event.At = time.Now()
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := p.Publish(ctx, event); err != nil {
			zap.L().Error("publish moderation event failed", zap.String("type", event.Type), zap.Error(err))
		}
	}()
}
