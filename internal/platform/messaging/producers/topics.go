package producers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// topicProvisioning bounds the partition lookups made before a topic is created
type topicProvisioning struct {
	attempts int
	backoff  time.Duration
}

var defaultProvisioning = topicProvisioning{attempts: 5, backoff: 2 * time.Second}

// ensureTopic creates topic when its partitions cannot be read after the
// configured attempts. Zero partition or replica counts fall back to 1.
func ensureTopic(ctx context.Context, admin TopicAdmin, topic kafka.TopicConfig, p topicProvisioning, log *slog.Logger) error {
	log = log.With("topic", topic.Topic)

	var (
		partitions []kafka.Partition
		err        error
	)
	for attempt := 1; attempt <= p.attempts; attempt++ {
		partitions, err = admin.ReadPartitions(topic.Topic)
		if err == nil && len(partitions) > 0 {
			log.Debug("Kafka topic exists", "partitions", len(partitions))
			return nil
		}
		if attempt == p.attempts {
			break
		}
		log.Warn("Could not read topic partitions, retrying", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.backoff):
		}
	}

	if topic.NumPartitions <= 0 {
		topic.NumPartitions = 1
	}
	if topic.ReplicationFactor <= 0 {
		topic.ReplicationFactor = 1
	}

	log.Info("Creating Kafka topic",
		"partitions", topic.NumPartitions,
		"replication_factor", topic.ReplicationFactor,
		"last_read_error", err)
	if err := admin.CreateTopics(topic); err != nil {
		return fmt.Errorf("failed to create kafka topic %s: %w", topic.Topic, err)
	}
	return nil
}

// dialAndEnsureTopic opens a short-lived broker connection to provision topic
func dialAndEnsureTopic(ctx context.Context, brokers string, topic kafka.TopicConfig, log *slog.Logger) error {
	conn, err := kafka.DialContext(ctx, "tcp", brokers)
	if err != nil {
		return fmt.Errorf("failed to dial kafka for topic %s: %w", topic.Topic, err)
	}
	defer conn.Close()

	return ensureTopic(ctx, conn, topic, defaultProvisioning, log)
}
