package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/domain"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/contracts/dto"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/contracts/events"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/geo"
	journeyDomain "github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/journey"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/vehicle"
)

// CreateJourneyRequest is the request DTO for announcing a trip.
type CreateJourneyRequest struct {
	StartLocation dto.LocationDTO `json:"start_location"`
	EndLocation   dto.LocationDTO `json:"end_location"`
	VehicleType   string          `json:"vehicle_type" binding:"required"`
}

// UpdateJourneyStatusRequest is the request DTO for closing a journey.
type UpdateJourneyStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=completed cancelled"`
}

// JourneyDTO is the API response representation of a journey.
type JourneyDTO struct {
	ID            uuid.UUID    `json:"id"`
	TravelerID    uuid.UUID    `json:"traveler_id"`
	StartLocation geo.Location `json:"start_location"`
	EndLocation   geo.Location `json:"end_location"`
	VehicleType   string       `json:"vehicle_type"`
	Status        string       `json:"status"`
	Version       int64        `json:"version"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// JourneyService implements use cases for travelers' journeys.
type JourneyService struct {
	repo   journeyDomain.Repository
	events eventEmitter
	logger *zap.Logger
}

// NewJourneyService creates a new JourneyService.
func NewJourneyService(repo journeyDomain.Repository, publisher EventPublisher, logger *zap.Logger) *JourneyService {
	return &JourneyService{
		repo:   repo,
		events: eventEmitter{publisher: publisher, logger: logger},
		logger: logger,
	}
}

// CreateJourney records a new active journey for the traveler.
func (s *JourneyService) CreateJourney(ctx context.Context, travelerID uuid.UUID, req CreateJourneyRequest) (*JourneyDTO, error) {
	start, err := toLocation("start_location", req.StartLocation)
	if err != nil {
		return nil, err
	}
	end, err := toLocation("end_location", req.EndLocation)
	if err != nil {
		return nil, err
	}
	vt, err := vehicle.Parse(req.VehicleType)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	j, err := journeyDomain.NewJourney(travelerID, start, end, vt)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, j); err != nil {
		s.logger.Error("failed to create journey", zap.Error(err))
		return nil, fmt.Errorf("failed to create journey: %w", err)
	}

	s.events.emit(ctx, events.TopicJourneyEvents, events.JourneyCreated, j.ID().String(), events.JourneyCreatedEvent{
		JourneyID:   j.ID(),
		TravelerID:  travelerID,
		VehicleType: string(vt),
		StartLat:    start.Latitude,
		StartLng:    start.Longitude,
		EndLat:      end.Latitude,
		EndLng:      end.Longitude,
		OccurredAt:  time.Now().UTC(),
	})

	s.logger.Info("journey created",
		zap.String("journey_id", j.ID().String()),
		zap.String("traveler_id", travelerID.String()),
	)
	result := toJourneyDTO(j)
	return &result, nil
}

// GetMyJourneys returns all journeys of the traveler, newest first.
func (s *JourneyService) GetMyJourneys(ctx context.Context, travelerID uuid.UUID) ([]JourneyDTO, error) {
	journeys, err := s.repo.FindByTravelerID(ctx, travelerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get journeys: %w", err)
	}
	dtos := make([]JourneyDTO, len(journeys))
	for i, j := range journeys {
		dtos[i] = toJourneyDTO(j)
	}
	return dtos, nil
}

// UpdateJourneyStatus completes or cancels a journey, verifying ownership.
func (s *JourneyService) UpdateJourneyStatus(ctx context.Context, travelerID, journeyID uuid.UUID, req UpdateJourneyStatusRequest) (*JourneyDTO, error) {
	target, err := journeyDomain.ParseStatus(req.Status)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	j, err := s.repo.FindByID(ctx, journeyID)
	if err != nil {
		return nil, err
	}
	if !j.IsOwnedBy(travelerID) {
		return nil, domain.NewForbiddenError("journey does not belong to this traveler")
	}

	if err := j.UpdateStatus(target); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, j); err != nil {
		return nil, err
	}

	s.logger.Info("journey status updated",
		zap.String("journey_id", journeyID.String()),
		zap.String("status", string(target)),
	)
	result := toJourneyDTO(j)
	return &result, nil
}

func toJourneyDTO(j *journeyDomain.Journey) JourneyDTO {
	return JourneyDTO{
		ID:            j.ID(),
		TravelerID:    j.TravelerID(),
		StartLocation: j.Start(),
		EndLocation:   j.End(),
		VehicleType:   string(j.VehicleType()),
		Status:        string(j.Status()),
		Version:       j.Version(),
		CreatedAt:     j.CreatedAt(),
		UpdatedAt:     j.UpdatedAt(),
	}
}
