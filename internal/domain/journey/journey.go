// Package journey models a trip a traveler announces and can carry parcels along.
package journey

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/domain"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/geo"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/matching"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/vehicle"
)

// Status represents the lifecycle state of a journey.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ParseStatus converts a string to a Status, returning an error if invalid.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusActive, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("invalid journey status: %s", s)
}

// Journey is the aggregate root for a traveler's announced trip.
type Journey struct {
	id          uuid.UUID
	travelerID  uuid.UUID
	start       geo.Location
	end         geo.Location
	vehicleType vehicle.Type
	status      Status
	version     int64
	createdAt   time.Time
	updatedAt   time.Time
}

// NewJourney creates a new active journey with validated fields.
func NewJourney(travelerID uuid.UUID, start, end geo.Location, vehicleType vehicle.Type) (*Journey, error) {
	if travelerID == uuid.Nil {
		return nil, domain.NewValidationError("traveler ID is required")
	}
	if err := start.Validate(); err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("start location: %v", err))
	}
	if err := end.Validate(); err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("end location: %v", err))
	}
	if !vehicleType.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid vehicle type: %s", vehicleType))
	}

	now := time.Now().UTC()
	return &Journey{
		id:          uuid.New(),
		travelerID:  travelerID,
		start:       start,
		end:         end,
		vehicleType: vehicleType,
		status:      StatusActive,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct rebuilds a Journey from persistence data (no validation).
func Reconstruct(
	id, travelerID uuid.UUID,
	start, end geo.Location,
	vehicleType vehicle.Type,
	status Status,
	version int64,
	createdAt, updatedAt time.Time,
) *Journey {
	return &Journey{
		id:          id,
		travelerID:  travelerID,
		start:       start,
		end:         end,
		vehicleType: vehicleType,
		status:      status,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// --- Getters ---

func (j *Journey) ID() uuid.UUID             { return j.id }
func (j *Journey) TravelerID() uuid.UUID     { return j.travelerID }
func (j *Journey) Start() geo.Location       { return j.start }
func (j *Journey) End() geo.Location         { return j.end }
func (j *Journey) VehicleType() vehicle.Type { return j.vehicleType }
func (j *Journey) Status() Status            { return j.status }
func (j *Journey) Version() int64            { return j.version }
func (j *Journey) CreatedAt() time.Time      { return j.createdAt }
func (j *Journey) UpdatedAt() time.Time      { return j.updatedAt }

// --- Behavior ---

// Route returns the straight segment the route matcher compares deliveries against.
func (j *Journey) Route() matching.Route {
	return matching.Route{Start: j.start.Point, End: j.end.Point}
}

// IsOwnedBy checks if the journey belongs to the given traveler.
func (j *Journey) IsOwnedBy(travelerID uuid.UUID) bool {
	return j.travelerID == travelerID
}

// IsActive returns true if the journey is still under way.
func (j *Journey) IsActive() bool {
	return j.status == StatusActive
}

// UpdateStatus closes an active journey as completed or cancelled.
func (j *Journey) UpdateStatus(target Status) error {
	if j.status != StatusActive || target == StatusActive {
		return domain.NewInvalidStateError(string(j.status), string(target))
	}
	j.status = target
	j.version++
	j.updatedAt = time.Now().UTC()
	return nil
}
