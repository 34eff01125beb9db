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

// Publisher is the part of *amqp.Channel the producer needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// NotificationProducer publishes notifications to the CRM exchange. It is a
// usecase.Notifier; publish failures are logged and dropped.
type NotificationProducer struct {
	Ch  Publisher
	Log *zap.Logger
}

func NewProducer(ch Publisher, log *zap.Logger) *NotificationProducer {
	return &NotificationProducer{Ch: ch, Log: logger.Or(log)}
}

func (p *NotificationProducer) Publish(ctx context.Context, n entity.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    n.ID,
			Timestamp:    n.CreatedAt,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

func (p *NotificationProducer) Notify(ctx context.Context, n entity.Notification) {
	if err := p.Publish(ctx, n); err != nil {
		p.Log.Warn("notification not published", zap.String("notification_id", n.ID), zap.Error(err))
	}
}
