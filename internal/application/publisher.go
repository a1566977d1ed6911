package application

import (
	"context"

	"github.com/fast-lane/service-core/internal/kafka"
)

// EventPublisher publishes CloudEvents to a topic. Satisfied by kafka.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event kafka.CloudEvent) error
}
