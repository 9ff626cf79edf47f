// Package events defines topics, event types and payloads exchanged over Kafka.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics.
const (
	TopicDeliveryEvents = "delivery.events"
	TopicJourneyEvents  = "journey.events"
	TopicPaymentEvents  = "payment.events"
)

// Event types.
const (
	DeliveryRequested = "delivery.requested"
	DeliveryAccepted  = "delivery.accepted"
	DeliveryPickedUp  = "delivery.picked_up"
	DeliveryCompleted = "delivery.completed"
	DeliveryCancelled = "delivery.cancelled"

	JourneyCreated = "journey.created"

	PaymentCompleted = "payment.completed"
)

// DeliveryRequestedEvent is published when a sender creates a delivery.
type DeliveryRequestedEvent struct {
	DeliveryID  uuid.UUID `json:"delivery_id"`
	SenderID    uuid.UUID `json:"sender_id"`
	PackageSize string    `json:"package_size"`
	VehicleType string    `json:"vehicle_type"`
	PickupLat   float64   `json:"pickup_lat"`
	PickupLng   float64   `json:"pickup_lng"`
	DropLat     float64   `json:"drop_lat"`
	DropLng     float64   `json:"drop_lng"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// DeliveryAcceptedEvent is published when a traveler takes a delivery.
type DeliveryAcceptedEvent struct {
	DeliveryID uuid.UUID `json:"delivery_id"`
	SenderID   uuid.UUID `json:"sender_id"`
	TravelerID uuid.UUID `json:"traveler_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// DeliveryPickedUpEvent carries the handover code the notification service sends to the receiver.
type DeliveryPickedUpEvent struct {
	DeliveryID      uuid.UUID `json:"delivery_id"`
	SenderID        uuid.UUID `json:"sender_id"`
	TravelerID      uuid.UUID `json:"traveler_id"`
	ReceiverContact string    `json:"receiver_contact"`
	OTP             string    `json:"otp"`
	PickedUpAt      time.Time `json:"picked_up_at"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// DeliveryCompletedEvent is published once the receiver's code has been verified.
type DeliveryCompletedEvent struct {
	DeliveryID  uuid.UUID `json:"delivery_id"`
	SenderID    uuid.UUID `json:"sender_id"`
	TravelerID  uuid.UUID `json:"traveler_id"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	DeliveredAt time.Time `json:"delivered_at"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// DeliveryCancelledEvent is published when a sender cancels.
type DeliveryCancelledEvent struct {
	DeliveryID uuid.UUID  `json:"delivery_id"`
	SenderID   uuid.UUID  `json:"sender_id"`
	TravelerID *uuid.UUID `json:"traveler_id,omitempty"`
	Reason     string     `json:"reason"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// JourneyCreatedEvent is published when a traveler announces a trip.
type JourneyCreatedEvent struct {
	JourneyID   uuid.UUID `json:"journey_id"`
	TravelerID  uuid.UUID `json:"traveler_id"`
	VehicleType string    `json:"vehicle_type"`
	StartLat    float64   `json:"start_lat"`
	StartLng    float64   `json:"start_lng"`
	EndLat      float64   `json:"end_lat"`
	EndLng      float64   `json:"end_lng"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// PaymentCompletedEvent is consumed from the payment service.
type PaymentCompletedEvent struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	DeliveryID  uuid.UUID `json:"delivery_id"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	OccurredAt  time.Time `json:"occurred_at"`
}
