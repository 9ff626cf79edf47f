// Package delivery models a sender's request to have a parcel carried by a traveler.
package delivery

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/domain"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/geo"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/matching"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/vehicle"
)

// DeliveryRequest is the aggregate root for the delivery domain.
type DeliveryRequest struct {
	id              uuid.UUID
	senderID        uuid.UUID
	travelerID      *uuid.UUID
	pickup          geo.Location
	drop            geo.Location
	receiverContact string
	packageSize     PackageSize
	vehicleType     vehicle.Type
	status          Status
	payment         Payment
	routeSpec       *RouteSpecification
	cancelReason    string

	acceptedAt  *time.Time
	pickedUpAt  *time.Time
	deliveredAt *time.Time
	cancelledAt *time.Time

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewDeliveryRequest creates a new pending delivery. The vehicle type is derived from the package
// size and the route specification from the pickup and drop coordinates.
func NewDeliveryRequest(
	senderID uuid.UUID,
	pickup geo.Location,
	drop geo.Location,
	receiverContact string,
	packageSize PackageSize,
	amountCents int64,
	currency string,
) (*DeliveryRequest, error) {
	if senderID == uuid.Nil {
		return nil, domain.NewValidationError("sender ID is required")
	}
	if err := pickup.Validate(); err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("pickup location: %v", err))
	}
	if err := drop.Validate(); err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("drop location: %v", err))
	}
	if !IsValidContact(receiverContact) {
		return nil, domain.NewValidationError("receiver contact must be a 10 digit number")
	}
	vehicleType, err := packageSize.RequiredVehicle()
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	if amountCents <= 0 {
		return nil, domain.NewValidationError("payment amount must be positive")
	}

	distanceKm := geo.GreatCircleDistanceKm(pickup.Point, drop.Point)
	now := time.Now().UTC()
	return &DeliveryRequest{
		id:              uuid.New(),
		senderID:        senderID,
		pickup:          pickup,
		drop:            drop,
		receiverContact: receiverContact,
		packageSize:     packageSize,
		vehicleType:     vehicleType,
		status:          StatusPending,
		payment: Payment{
			AmountCents: amountCents,
			Currency:    currency,
			Status:      PaymentPending,
		},
		routeSpec: &RouteSpecification{
			DistanceKm:           distanceKm,
			EstimatedDurationMin: int(math.Ceil(distanceKm / vehicleType.AverageSpeedKmh() * 60)),
		},
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructDeliveryRequest rebuilds a DeliveryRequest from persistence data (no validation).
func ReconstructDeliveryRequest(
	id uuid.UUID,
	senderID uuid.UUID,
	travelerID *uuid.UUID,
	pickup geo.Location,
	drop geo.Location,
	receiverContact string,
	packageSize PackageSize,
	vehicleType vehicle.Type,
	status Status,
	payment Payment,
	routeSpec *RouteSpecification,
	cancelReason string,
	acceptedAt *time.Time,
	pickedUpAt *time.Time,
	deliveredAt *time.Time,
	cancelledAt *time.Time,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *DeliveryRequest {
	return &DeliveryRequest{
		id:              id,
		senderID:        senderID,
		travelerID:      travelerID,
		pickup:          pickup,
		drop:            drop,
		receiverContact: receiverContact,
		packageSize:     packageSize,
		vehicleType:     vehicleType,
		status:          status,
		payment:         payment,
		routeSpec:       routeSpec,
		cancelReason:    cancelReason,
		acceptedAt:      acceptedAt,
		pickedUpAt:      pickedUpAt,
		deliveredAt:     deliveredAt,
		cancelledAt:     cancelledAt,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// IsValidContact reports whether s is exactly ten ASCII digits.
func IsValidContact(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// --- Getters ---

func (d *DeliveryRequest) ID() uuid.UUID                  { return d.id }
func (d *DeliveryRequest) SenderID() uuid.UUID            { return d.senderID }
func (d *DeliveryRequest) TravelerID() *uuid.UUID         { return d.travelerID }
func (d *DeliveryRequest) Pickup() geo.Location           { return d.pickup }
func (d *DeliveryRequest) Drop() geo.Location             { return d.drop }
func (d *DeliveryRequest) ReceiverContact() string        { return d.receiverContact }
func (d *DeliveryRequest) PackageSize() PackageSize       { return d.packageSize }
func (d *DeliveryRequest) VehicleType() vehicle.Type      { return d.vehicleType }
func (d *DeliveryRequest) Status() Status                 { return d.status }
func (d *DeliveryRequest) Payment() Payment               { return d.payment }
func (d *DeliveryRequest) RouteSpec() *RouteSpecification { return d.routeSpec }
func (d *DeliveryRequest) CancelReason() string           { return d.cancelReason }
func (d *DeliveryRequest) AcceptedAt() *time.Time         { return d.acceptedAt }
func (d *DeliveryRequest) PickedUpAt() *time.Time         { return d.pickedUpAt }
func (d *DeliveryRequest) DeliveredAt() *time.Time        { return d.deliveredAt }
func (d *DeliveryRequest) CancelledAt() *time.Time        { return d.cancelledAt }
func (d *DeliveryRequest) Version() int64                 { return d.version }
func (d *DeliveryRequest) CreatedAt() time.Time           { return d.createdAt }
func (d *DeliveryRequest) UpdatedAt() time.Time           { return d.updatedAt }

// Candidate returns the pickup and drop points in the form the route matcher consumes.
func (d *DeliveryRequest) Candidate() matching.DeliveryCandidate {
	return matching.DeliveryCandidate{Pickup: d.pickup.Point, Drop: d.drop.Point}
}

// IsAssignedTo reports whether travelerID has accepted this delivery.
func (d *DeliveryRequest) IsAssignedTo(travelerID uuid.UUID) bool {
	return d.travelerID != nil && *d.travelerID == travelerID
}

// --- Behavior ---

// Accept assigns the delivery to a traveler.
func (d *DeliveryRequest) Accept(travelerID uuid.UUID) error {
	if !d.status.CanTransitionTo(StatusAccepted) {
		return domain.NewInvalidStateError(string(d.status), string(StatusAccepted))
	}
	if travelerID == uuid.Nil {
		return domain.NewValidationError("traveler ID is required")
	}
	if travelerID == d.senderID {
		return domain.NewValidationError("a sender cannot carry their own delivery")
	}
	now := time.Now().UTC()
	d.travelerID = &travelerID
	d.status = StatusAccepted
	d.acceptedAt = &now
	d.updatedAt = now
	return nil
}

// StartTransit marks the parcel as picked up by the assigned traveler.
func (d *DeliveryRequest) StartTransit(travelerID uuid.UUID) error {
	if !d.IsAssignedTo(travelerID) {
		return domain.NewForbiddenError("delivery is not assigned to this traveler")
	}
	if !d.status.CanTransitionTo(StatusInTransit) {
		return domain.NewInvalidStateError(string(d.status), string(StatusInTransit))
	}
	now := time.Now().UTC()
	d.status = StatusInTransit
	d.pickedUpAt = &now
	d.updatedAt = now
	return nil
}

// Complete marks the parcel as handed over. The caller verifies the receiver's code first.
func (d *DeliveryRequest) Complete(travelerID uuid.UUID) error {
	if !d.IsAssignedTo(travelerID) {
		return domain.NewForbiddenError("delivery is not assigned to this traveler")
	}
	if !d.status.CanTransitionTo(StatusDelivered) {
		return domain.NewInvalidStateError(string(d.status), string(StatusDelivered))
	}
	now := time.Now().UTC()
	d.status = StatusDelivered
	d.deliveredAt = &now
	d.updatedAt = now
	return nil
}

// Cancel withdraws the delivery. Only the sender may cancel, and only before pickup.
func (d *DeliveryRequest) Cancel(senderID uuid.UUID, reason string) error {
	if d.senderID != senderID {
		return domain.NewForbiddenError("delivery does not belong to this sender")
	}
	if !d.status.CanBeCancelled() {
		return domain.NewInvalidStateError(string(d.status), string(StatusCancelled))
	}
	now := time.Now().UTC()
	d.status = StatusCancelled
	d.cancelReason = reason
	d.cancelledAt = &now
	d.updatedAt = now
	return nil
}

// MarkPaid records a settled payment. It returns false when the payment was already completed.
func (d *DeliveryRequest) MarkPaid() bool {
	if d.payment.Status == PaymentCompleted {
		return false
	}
	d.payment.Status = PaymentCompleted
	d.updatedAt = time.Now().UTC()
	return true
}

// IncrementVersion bumps the version for optimistic locking.
func (d *DeliveryRequest) IncrementVersion() {
	d.version++
	d.updatedAt = time.Now().UTC()
}
