package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/pipeline-crm/leadboard/internal/entity"
	"github.com/pipeline-crm/leadboard/internal/logger"
)

type NotificationStore interface {
	Save(ctx context.Context, n entity.Notification) error
}

// Consumer drains the notification queue into the store.
type Consumer struct {
	Channel *amqp.Channel
	Store   NotificationStore
	Log     *zap.Logger
}

func NewConsumer(ch *amqp.Channel, store NotificationStore, log *zap.Logger) *Consumer {
	return &Consumer{Channel: ch, Store: store, Log: logger.Or(log)}
}

// Start consumes until ctx is done or the channel closes.
func (c *Consumer) Start(ctx context.Context) error {
	msgs, err := c.Channel.ConsumeWithContext(ctx,
		QueueName,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	c.Log.Info("notification consumer started", zap.String("queue", QueueName))
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				c.Log.Warn("notification queue closed")
				return nil
			}
			c.handle(ctx, d)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	var n entity.Notification
	if err := json.Unmarshal(d.Body, &n); err != nil || n.ID == "" {
		c.Log.Error("malformed notification, dead-lettering", zap.Error(err))
		d.Nack(false, false)
		return
	}

	if err := c.Store.Save(ctx, n); err != nil {
		c.Log.Error("failed to store notification", zap.String("notification_id", n.ID), zap.Error(err))
		d.Nack(false, !d.Redelivered)
		return
	}
	d.Ack(false)
}
