package producers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/workshop-financial-engine/internal/config"
)

// ErrDLQDisabled is returned when publishing through an uninitialised DLQ producer
var ErrDLQDisabled = errors.New("DLQ producer not initialized")

// DLQMessage is the envelope written to the dead letter topic. Payload holds
// the rejected sale event as JSON when it parses, otherwise RawPayload holds
// the bytes as received.
type DLQMessage struct {
	Key        string          `json:"key"`
	Reason     string          `json:"reason"`
	Detail     string          `json:"detail,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	RawPayload string          `json:"raw_payload,omitempty"`
	FailedAt   time.Time       `json:"failed_at"`
}

// newDLQMessage splits a "REASON: cause" label into its code and detail
func newDLQMessage(key string, value []byte, label string, now time.Time) DLQMessage {
	msg := DLQMessage{Key: key, Reason: label, FailedAt: now.UTC()}
	if code, detail, ok := strings.Cut(label, ": "); ok {
		msg.Reason = code
		msg.Detail = detail
	}
	if json.Valid(value) {
		msg.Payload = json.RawMessage(value)
	} else {
		msg.RawPayload = string(value)
	}
	return msg
}

// DLQProducer writes unprocessable sale events to the dead letter topic
type DLQProducer struct {
	logger   *slog.Logger
	writer   KafkaWriter
	dlqTopic string
}

// NewDLQProducer returns a nil producer when cfg.DLQTopic is empty. Publishing
// through it yields ErrDLQDisabled so callers can leave the offset uncommitted.
func NewDLQProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*DLQProducer, error) {
	if cfg.DLQTopic == "" {
		logger.Info("DLQ topic is not configured. DLQProducer will not be initialized.")
		return nil, nil // DLQ is disabled, not an error.
	}

	err := dialAndEnsureTopic(ctx, cfg.Brokers, kafka.TopicConfig{
		Topic:             cfg.DLQTopic,
		NumPartitions:     cfg.NumPartitions,
		ReplicationFactor: cfg.ReplicationFactor,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure DLQ topic %s exists: %w", cfg.DLQTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.DLQTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: cfg.MaxWait,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write DLQ messages synchronously", "topic", cfg.DLQTopic, "error", err, "count", len(messages))
			} else {
				logger.Debug("Successfully wrote DLQ messages synchronously", "topic", cfg.DLQTopic, "count", len(messages))
			}
		},
	}

	return &DLQProducer{
		logger:   logger,
		writer:   writer,
		dlqTopic: cfg.DLQTopic,
	}, nil
}

// PublishToDLQ wraps the original message with the rejection reason and writes it synchronously
func (p *DLQProducer) PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error {
	if p == nil || p.writer == nil {
		if p != nil && p.logger != nil {
			p.logger.Warn("DLQ producer is not initialized (DLQ disabled), cannot publish message", "key", key, "reason", reason)
		}
		return ErrDLQDisabled
	}

	envelope := newDLQMessage(key, originalMessageValue, reason, time.Now())
	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal DLQ envelope for %s: %w", key, err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "dlq-reason", Value: []byte(envelope.Reason)},
			{Key: "dlq-failed-at", Value: []byte(envelope.FailedAt.Format(time.RFC3339Nano))},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to dead-letter sale event",
			"topic", p.dlqTopic,
			"key", key,
			"reason", envelope.Reason,
			"error", err,
		)
		return fmt.Errorf("failed to publish to DLQ %s: %w", p.dlqTopic, err)
	}

	p.logger.Info("Dead-lettered sale event",
		"topic", p.dlqTopic,
		"key", key,
		"reason", envelope.Reason,
	)
	return nil
}

func (p *DLQProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	p.logger.Info("Closing DLQ Kafka message producer", "topic", p.dlqTopic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close dlq kafka writer for topic %s: %w", p.dlqTopic, err)
	}
	return nil
}
