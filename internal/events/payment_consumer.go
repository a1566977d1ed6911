package events

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/fast-lane/service-core/internal/kafka"
)

// BookingConfirmer confirms a booking after its payment clears. Implemented
// by the booking application service.
type BookingConfirmer interface {
	ConfirmBookingPayment(ctx context.Context, bookingID uuid.UUID) error
}

// PaymentEventConsumer listens to payment events and confirms the bookings
// they pay for.
type PaymentEventConsumer struct {
	consumer *kafka.Consumer
	bookings BookingConfirmer
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a PaymentEventConsumer on the payment topic.
func NewPaymentEventConsumer(brokers []string, groupID string, bookings BookingConfirmer, logger *zap.Logger) *PaymentEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, TopicPaymentEvents, logger)
	return &PaymentEventConsumer{
		consumer: consumer,
		bookings: bookings,
		logger:   logger,
	}
}

// Start begins consuming payment events. Blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages.
	}

	switch cloudEvent.Type {
	case PaymentApproved:
		return c.handlePaymentApproved(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *PaymentEventConsumer) handlePaymentApproved(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt PaymentApprovedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse PaymentApprovedEvent data", zap.Error(err))
		return nil // Don't retry malformed data.
	}

	c.logger.Info("processing payment approval",
		zap.String("booking_id", evt.BookingID.String()),
		zap.String("payment_id", evt.PaymentID.String()),
	)

	if err := c.bookings.ConfirmBookingPayment(ctx, evt.BookingID); err != nil {
		c.logger.Error("failed to confirm booking after payment approval",
			zap.String("booking_id", evt.BookingID.String()),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("booking confirmed after payment approval",
		zap.String("booking_id", evt.BookingID.String()),
	)
	return nil
}
