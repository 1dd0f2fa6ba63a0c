package notifications

import (
	"context"
	"fmt"
	"time"

	"stagepass/internal/shared/config"
	"stagepass/pkg/logger"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// Producer publishes hold lifecycle events. Callers treat a nil Producer as
// "notifications disabled".
type Producer interface {
	PublishHoldEvent(ctx context.Context, event *HoldEvent) error
	Close() error
}

// KafkaProducer publishes hold events to a single topic via a sync producer.
type KafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaProducer creates a producer from service configuration.
func NewKafkaProducer(cfg config.KafkaConfig) (*KafkaProducer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1

	// Hash partitioner keeps one session's events ordered on one partition.
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &KafkaProducer{
		producer: producer,
		topic:    cfg.HoldTopic,
	}, nil
}

// PublishHoldEvent publishes a single hold lifecycle event.
func (p *KafkaProducer) PublishHoldEvent(ctx context.Context, event *HoldEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	messageBytes, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal hold event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(event.PartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Timestamp: event.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send hold event to Kafka: %w", err)
	}

	logger.GetDefault().InfoWithContext(ctx, "Hold event published", map[string]interface{}{
		"topic":     p.topic,
		"partition": partition,
		"offset":    offset,
		"type":      string(event.Type),
		"seat_id":   event.SeatID,
	})

	return nil
}

// Close shuts the underlying producer down.
func (p *KafkaProducer) Close() error {
	return p.producer.Close()
}
