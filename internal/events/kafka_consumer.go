// Package events consumes events other services publish about deliveries.
package events

import (
	"context"
	"errors"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-routematch/internal/application"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/domain"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/kafka"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/contracts/events"
)

// PaymentRecorder marks a delivery as paid. *application.DeliveryService satisfies it.
type PaymentRecorder interface {
	MarkPaymentCompleted(ctx context.Context, deliveryID uuid.UUID) (*application.DeliveryDTO, error)
}

// PaymentEventConsumer listens to payment events and records settled payments on deliveries.
type PaymentEventConsumer struct {
	consumer *kafka.Consumer
	service  PaymentRecorder
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a new PaymentEventConsumer.
func NewPaymentEventConsumer(
	brokers []string,
	groupID string,
	service PaymentRecorder,
	logger *zap.Logger,
) *PaymentEventConsumer {
	return newPaymentEventConsumer(kafka.NewConsumer(brokers, groupID, events.TopicPaymentEvents, logger), service, logger)
}

func newPaymentEventConsumer(consumer *kafka.Consumer, service PaymentRecorder, logger *zap.Logger) *PaymentEventConsumer {
	return &PaymentEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming payment events. This blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // malformed messages are not retried
	}

	switch cloudEvent.Type {
	case events.PaymentCompleted:
		return c.handlePaymentCompleted(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *PaymentEventConsumer) handlePaymentCompleted(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt events.PaymentCompletedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse PaymentCompletedEvent data", zap.Error(err))
		return nil
	}
	if evt.DeliveryID == uuid.Nil {
		c.logger.Error("payment event without delivery id", zap.String("event_id", cloudEvent.ID))
		return nil
	}

	_, err := c.service.MarkPaymentCompleted(ctx, evt.DeliveryID)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			c.logger.Warn("payment for unknown delivery",
				zap.String("delivery_id", evt.DeliveryID.String()),
				zap.String("payment_id", evt.PaymentID.String()),
			)
			return nil
		}
		c.logger.Error("failed to record payment",
			zap.String("delivery_id", evt.DeliveryID.String()),
			zap.Error(err),
		)
		return err // retried by the consumer until it succeeds
	}

	c.logger.Info("delivery payment recorded",
		zap.String("delivery_id", evt.DeliveryID.String()),
		zap.String("payment_id", evt.PaymentID.String()),
	)
	return nil
}
