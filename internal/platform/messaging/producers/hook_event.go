package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/aivl-fintrxn-generator/internal/config"
)

// HookEventProducer publishes contribution hook events for the generator to
// consume. The caller keys messages so both notifications of one operation
// land on the same partition, in order.
type HookEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewHookEventProducer creates the gateway producer and ensures the hook topic exists
func NewHookEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*HookEventProducer, error) {
	if cfg.HookTopic == "" {
		return nil, fmt.Errorf("kafka hook topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for hook event producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.HookTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure hook topic %s exists: %w", cfg.HookTopic, err)
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers),
		Topic:    cfg.HookTopic,
		Balancer: &kafka.Hash{}, // Same key, same partition: keeps pre before post per subject
		// Synchronous writes: a lost pre notification would turn the
		// matching post notification into a protocol violation downstream.
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		WriteTimeout: cfg.MaxWait,
	}

	return &HookEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.HookTopic,
	}, nil
}

func (p *HookEventProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message value for hook event producer: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish message via hook event producer",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish message to %s via hook event producer: %w", p.topic, err)
	}

	p.logger.Debug("Published message via hook event producer",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *HookEventProducer) Close() error {
	p.logger.Info("Closing hook event Kafka producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close hook event kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
