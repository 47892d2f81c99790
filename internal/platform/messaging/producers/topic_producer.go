package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"github.com/workshop-financial-engine/internal/config"
)

// TopicProducer publishes JSON-encoded values to a single Kafka topic
type TopicProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// TopicOptions selects the topic and delivery mode of a TopicProducer
type TopicOptions struct {
	Topic string
	// Async returns from Publish before the broker acknowledges the write.
	// Delivery failures are then only visible in the completion log.
	Async bool
}

// NewSaleEventProducer creates the gateway producer for inbound sales
func NewSaleEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*TopicProducer, error) {
	return NewTopicProducer(ctx, logger, cfg, TopicOptions{Topic: cfg.SaleTopic, Async: true})
}

// NewLedgerEventProducer creates the outbox producer for posted journal entries.
// Writes are synchronous so a message is only marked processed once Kafka has it.
func NewLedgerEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*TopicProducer, error) {
	return NewTopicProducer(ctx, logger, cfg, TopicOptions{Topic: cfg.LedgerEventTopic, Async: false})
}

// NewTopicProducer ensures the topic exists and returns a producer writing to it
func NewTopicProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig, opts TopicOptions) (*TopicProducer, error) {
	if opts.Topic == "" {
		return nil, fmt.Errorf("kafka topic is not configured")
	}

	err := dialAndEnsureTopic(ctx, cfg.Brokers, kafka.TopicConfig{
		Topic:             opts.Topic,
		NumPartitions:     cfg.NumPartitions,
		ReplicationFactor: cfg.ReplicationFactor,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure topic %s exists: %w", opts.Topic, err)
	}

	acks := kafka.RequireAll
	if opts.Async {
		acks = kafka.RequireOne
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        opts.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: acks,
		Async:        opts.Async,
		WriteTimeout: cfg.MaxWait,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write messages", "topic", opts.Topic, "async", opts.Async, "error", err, "count", len(messages))
			} else {
				logger.Debug("Successfully wrote messages", "topic", opts.Topic, "async", opts.Async, "count", len(messages))
			}
		},
	}

	return newTopicProducer(logger, writer, opts.Topic), nil
}

func newTopicProducer(logger *slog.Logger, writer KafkaWriter, topic string) *TopicProducer {
	return &TopicProducer{
		logger: logger.With("topic", topic),
		writer: writer,
		topic:  topic,
	}
}

// Topic returns the topic this producer writes to
func (p *TopicProducer) Topic() string {
	return p.topic
}

// Publish marshals value to JSON and writes it under key. A json.RawMessage
// or []byte value is written as is.
func (p *TopicProducer) Publish(ctx context.Context, key string, value interface{}) error {
	var payload []byte
	switch v := value.(type) {
	case json.RawMessage:
		payload = v
	case []byte:
		payload = v
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal message value for topic %s: %w", p.topic, err)
		}
		payload = encoded
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish message",
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish message to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published message", "key", key)
	return nil
}

func (p *TopicProducer) Close() error {
	p.logger.Info("Closing Kafka message producer")
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
