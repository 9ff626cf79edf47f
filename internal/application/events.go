package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/kafka"
)

// EventSource is the CloudEvents source of everything this service publishes.
const EventSource = "service-routematch"

// EventPublisher writes CloudEvents to a topic. *kafka.Producer satisfies it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

type eventEmitter struct {
	publisher EventPublisher
	logger    *zap.Logger
}

// emit publishes an event keyed by subject. Failures are logged and do not fail the use case.
func (e eventEmitter) emit(ctx context.Context, topic, eventType, subject string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent(EventSource, eventType, data)
	if err != nil {
		e.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	cloudEvent.Subject = subject

	if err := e.publisher.PublishEvent(ctx, topic, cloudEvent); err != nil {
		e.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
