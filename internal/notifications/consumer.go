package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stagepass/internal/shared/config"
	"stagepass/pkg/logger"

	"github.com/IBM/sarama"
)

// Consumer drains the hold-event topic. The current handler only records the
// stream; downstream delivery (email, push) attaches here.
type Consumer struct {
	consumerGroup sarama.ConsumerGroup
	topics        []string
	cancel        context.CancelFunc
	done          chan struct{}
}

// NewConsumer creates a consumer group member from service configuration.
func NewConsumer(cfg config.KafkaConfig) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = 30 * time.Second
	saramaConfig.Consumer.Group.Heartbeat.Interval = 3 * time.Second
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = 1 * time.Second

	consumerGroup, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.ConsumerGroup, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer group: %w", err)
	}

	return &Consumer{
		consumerGroup: consumerGroup,
		topics:        []string{cfg.HoldTopic},
		done:          make(chan struct{}),
	}, nil
}

// Start consumes until the context is cancelled or Stop is called.
func (c *Consumer) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	go func() {
		for err := range c.consumerGroup.Errors() {
			logger.GetDefault().ErrorWithContext(ctx, "Kafka consumer error", err, nil)
		}
	}()

	go func() {
		defer close(c.done)
		for {
			if err := c.consumerGroup.Consume(ctx, c.topics, &holdEventHandler{}); err != nil {
				logger.GetDefault().ErrorWithContext(ctx, "Kafka consume failed", err, nil)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	return nil
}

// Stop cancels consumption and closes the group.
func (c *Consumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	<-c.done
	return c.consumerGroup.Close()
}

type holdEventHandler struct{}

func (h *holdEventHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *holdEventHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *holdEventHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		var event HoldEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			logger.GetDefault().ErrorWithContext(session.Context(), "Malformed hold event", err, map[string]interface{}{
				"offset": message.Offset,
			})
			session.MarkMessage(message, "")
			continue
		}

		logger.GetDefault().InfoWithContext(session.Context(), "Hold event consumed", map[string]interface{}{
			"type":       string(event.Type),
			"event_id":   event.EventID,
			"seat_id":    event.SeatID,
			"session_id": event.SessionID,
		})

		session.MarkMessage(message, "")
	}
	return nil
}
