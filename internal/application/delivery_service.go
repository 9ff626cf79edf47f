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
	deliveryDomain "github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/delivery"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/geo"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/journey"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/otp"
)

// CreateDeliveryRequest holds the data needed to create a new delivery.
type CreateDeliveryRequest struct {
	PickupLocation  dto.LocationDTO `json:"pickup_location"`
	DropLocation    dto.LocationDTO `json:"drop_location"`
	ReceiverContact string          `json:"receiver_contact" binding:"required"`
	PackageSize     string          `json:"package_size" binding:"required,oneof=S M L"`
}

// DeliveryDTO is the response representation of a delivery.
type DeliveryDTO struct {
	ID              uuid.UUID                          `json:"id"`
	SenderID        uuid.UUID                          `json:"sender_id"`
	TravelerID      *uuid.UUID                         `json:"traveler_id,omitempty"`
	PickupLocation  geo.Location                       `json:"pickup_location"`
	DropLocation    geo.Location                       `json:"drop_location"`
	ReceiverContact string                             `json:"receiver_contact"`
	PackageSize     string                             `json:"package_size"`
	VehicleType     string                             `json:"vehicle_type"`
	Status          string                             `json:"status"`
	Payment         deliveryDomain.Payment             `json:"payment"`
	RouteSpec       *deliveryDomain.RouteSpecification `json:"route_spec,omitempty"`
	CancelReason    string                             `json:"cancel_reason,omitempty"`
	AcceptedAt      *time.Time                         `json:"accepted_at,omitempty"`
	PickedUpAt      *time.Time                         `json:"picked_up_at,omitempty"`
	DeliveredAt     *time.Time                         `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time                         `json:"cancelled_at,omitempty"`
	Version         int64                              `json:"version"`
	CreatedAt       time.Time                          `json:"created_at"`
	UpdatedAt       time.Time                          `json:"updated_at"`
}

// DeliveryService is the application service orchestrating delivery use cases.
type DeliveryService struct {
	repo        deliveryDomain.Repository
	journeyRepo journey.Repository
	pricing     deliveryDomain.PricingStrategy
	otpStore    otp.Store
	otpTTL      time.Duration
	settings    *MatchingSettings
	events      eventEmitter
	logger      *zap.Logger
}

// NewDeliveryService creates a new DeliveryService.
func NewDeliveryService(
	repo deliveryDomain.Repository,
	journeyRepo journey.Repository,
	pricing deliveryDomain.PricingStrategy,
	otpStore otp.Store,
	otpTTL time.Duration,
	settings *MatchingSettings,
	publisher EventPublisher,
	logger *zap.Logger,
) *DeliveryService {
	return &DeliveryService{
		repo:        repo,
		journeyRepo: journeyRepo,
		pricing:     pricing,
		otpStore:    otpStore,
		otpTTL:      otpTTL,
		settings:    settings,
		events:      eventEmitter{publisher: publisher, logger: logger},
		logger:      logger,
	}
}

// CreateDelivery creates a new delivery for the given sender.
func (s *DeliveryService) CreateDelivery(ctx context.Context, senderID uuid.UUID, req CreateDeliveryRequest) (*DeliveryDTO, error) {
	pickup, err := toLocation("pickup_location", req.PickupLocation)
	if err != nil {
		return nil, err
	}
	drop, err := toLocation("drop_location", req.DropLocation)
	if err != nil {
		return nil, err
	}

	size := deliveryDomain.PackageSize(req.PackageSize)
	amountCents, err := s.pricing.Calculate(deliveryDomain.PricingParams{
		DistanceKm:  geo.GreatCircleDistanceKm(pickup.Point, drop.Point),
		PackageSize: size,
	})
	if err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("pricing error: %v", err))
	}

	d, err := deliveryDomain.NewDeliveryRequest(senderID, pickup, drop, req.ReceiverContact, size, amountCents, domain.CurrencyINR)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to save delivery: %w", err)
	}

	s.events.emit(ctx, events.TopicDeliveryEvents, events.DeliveryRequested, d.ID().String(), events.DeliveryRequestedEvent{
		DeliveryID:  d.ID(),
		SenderID:    senderID,
		PackageSize: string(d.PackageSize()),
		VehicleType: string(d.VehicleType()),
		PickupLat:   pickup.Latitude,
		PickupLng:   pickup.Longitude,
		DropLat:     drop.Latitude,
		DropLng:     drop.Longitude,
		AmountCents: amountCents,
		Currency:    domain.CurrencyINR,
		OccurredAt:  time.Now().UTC(),
	})

	s.logger.Info("delivery created",
		zap.String("delivery_id", d.ID().String()),
		zap.String("sender_id", senderID.String()),
		zap.String("package_size", string(size)),
	)
	result := toDeliveryDTO(d)
	return &result, nil
}

// GetMyDeliveries retrieves paginated deliveries created by a sender.
func (s *DeliveryService) GetMyDeliveries(ctx context.Context, senderID uuid.UUID, page, limit int) (*domain.PaginatedResult[DeliveryDTO], error) {
	deliveries, total, err := s.repo.FindBySenderID(ctx, senderID, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toDeliveryDTOs(deliveries), total, page, limit)
	return &result, nil
}

// GetMyJobs retrieves paginated deliveries accepted by a traveler.
func (s *DeliveryService) GetMyJobs(ctx context.Context, travelerID uuid.UUID, page, limit int) (*domain.PaginatedResult[DeliveryDTO], error) {
	deliveries, total, err := s.repo.FindByTravelerID(ctx, travelerID, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toDeliveryDTOs(deliveries), total, page, limit)
	return &result, nil
}

// AcceptDelivery assigns a traveler to a pending delivery.
func (s *DeliveryService) AcceptDelivery(ctx context.Context, deliveryID, travelerID uuid.UUID) (*DeliveryDTO, error) {
	d, err := s.repo.FindByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}

	if err := d.Accept(travelerID); err != nil {
		return nil, err
	}

	d.IncrementVersion()
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}

	s.events.emit(ctx, events.TopicDeliveryEvents, events.DeliveryAccepted, d.ID().String(), events.DeliveryAcceptedEvent{
		DeliveryID: d.ID(),
		SenderID:   d.SenderID(),
		TravelerID: travelerID,
		OccurredAt: time.Now().UTC(),
	})

	result := toDeliveryDTO(d)
	return &result, nil
}

// StartDelivery marks the parcel as picked up and issues the receiver's handover code.
func (s *DeliveryService) StartDelivery(ctx context.Context, deliveryID, travelerID uuid.UUID) (*DeliveryDTO, error) {
	d, err := s.repo.FindByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}

	if err := d.StartTransit(travelerID); err != nil {
		return nil, err
	}

	code, err := otp.Generate()
	if err != nil {
		return nil, err
	}
	// Stored before the status change so an in-transit delivery always has a code.
	if err := s.otpStore.Save(ctx, d.ID(), code, s.otpTTL); err != nil {
		return nil, err
	}

	d.IncrementVersion()
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}

	s.events.emit(ctx, events.TopicDeliveryEvents, events.DeliveryPickedUp, d.ID().String(), events.DeliveryPickedUpEvent{
		DeliveryID:      d.ID(),
		SenderID:        d.SenderID(),
		TravelerID:      travelerID,
		ReceiverContact: d.ReceiverContact(),
		OTP:             code,
		PickedUpAt:      *d.PickedUpAt(),
		OccurredAt:      time.Now().UTC(),
	})

	result := toDeliveryDTO(d)
	return &result, nil
}

// CompleteDelivery verifies the receiver's handover code and marks the delivery as delivered.
func (s *DeliveryService) CompleteDelivery(ctx context.Context, deliveryID, travelerID uuid.UUID, code string) (*DeliveryDTO, error) {
	d, err := s.repo.FindByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if !d.IsAssignedTo(travelerID) {
		return nil, domain.NewForbiddenError("delivery is not assigned to this traveler")
	}
	if d.Status() != deliveryDomain.StatusInTransit {
		return nil, domain.NewInvalidStateError(string(d.Status()), string(deliveryDomain.StatusDelivered))
	}

	ok, err := s.otpStore.Verify(ctx, d.ID(), code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewValidationError("invalid or expired OTP")
	}

	if err := d.Complete(travelerID); err != nil {
		return nil, err
	}

	d.IncrementVersion()
	if err := s.repo.Update(ctx, d); err != nil {
		if restoreErr := s.otpStore.Save(ctx, d.ID(), code, s.otpTTL); restoreErr != nil {
			s.logger.Error("failed to restore otp after update failure",
				zap.String("delivery_id", d.ID().String()),
				zap.Error(restoreErr),
			)
		}
		return nil, err
	}

	s.events.emit(ctx, events.TopicDeliveryEvents, events.DeliveryCompleted, d.ID().String(), events.DeliveryCompletedEvent{
		DeliveryID:  d.ID(),
		SenderID:    d.SenderID(),
		TravelerID:  travelerID,
		AmountCents: d.Payment().AmountCents,
		Currency:    d.Payment().Currency,
		DeliveredAt: *d.DeliveredAt(),
		OccurredAt:  time.Now().UTC(),
	})

	result := toDeliveryDTO(d)
	return &result, nil
}

// CancelDelivery cancels a delivery on behalf of its sender.
func (s *DeliveryService) CancelDelivery(ctx context.Context, deliveryID, senderID uuid.UUID, reason string) (*DeliveryDTO, error) {
	d, err := s.repo.FindByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}

	if err := d.Cancel(senderID, reason); err != nil {
		return nil, err
	}

	d.IncrementVersion()
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}

	s.events.emit(ctx, events.TopicDeliveryEvents, events.DeliveryCancelled, d.ID().String(), events.DeliveryCancelledEvent{
		DeliveryID: d.ID(),
		SenderID:   senderID,
		TravelerID: d.TravelerID(),
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	})

	result := toDeliveryDTO(d)
	return &result, nil
}

// MarkPaymentCompleted records that the sender has paid. Repeated notifications are ignored.
func (s *DeliveryService) MarkPaymentCompleted(ctx context.Context, deliveryID uuid.UUID) (*DeliveryDTO, error) {
	d, err := s.repo.FindByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}

	if d.MarkPaid() {
		d.IncrementVersion()
		if err := s.repo.Update(ctx, d); err != nil {
			return nil, err
		}
	} else {
		s.logger.Debug("payment already recorded", zap.String("delivery_id", deliveryID.String()))
	}

	result := toDeliveryDTO(d)
	return &result, nil
}

// --- Admin methods ---

// DeliveryStatsDTO holds delivery statistics for the admin dashboard.
type DeliveryStatsDTO struct {
	TotalDeliveries int64            `json:"total_deliveries"`
	ByStatus        map[string]int64 `json:"by_status"`
}

// ListAllDeliveries returns a paginated list of all deliveries (admin).
func (s *DeliveryService) ListAllDeliveries(ctx context.Context, page, limit int) ([]DeliveryDTO, int64, error) {
	deliveries, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list deliveries: %w", err)
	}
	return toDeliveryDTOs(deliveries), total, nil
}

// GetDeliveryStats returns aggregate delivery statistics (admin).
func (s *DeliveryService) GetDeliveryStats(ctx context.Context) (*DeliveryStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return &DeliveryStatsDTO{TotalDeliveries: total, ByStatus: counts}, nil
}

// --- Helpers ---

func toLocation(field string, l dto.LocationDTO) (geo.Location, error) {
	loc, err := geo.NewLocation(l.Address, l.Latitude, l.Longitude)
	if err != nil {
		return geo.Location{}, domain.NewValidationError(fmt.Sprintf("%s: %v", field, err))
	}
	return loc, nil
}

func toDeliveryDTO(d *deliveryDomain.DeliveryRequest) DeliveryDTO {
	return DeliveryDTO{
		ID:              d.ID(),
		SenderID:        d.SenderID(),
		TravelerID:      d.TravelerID(),
		PickupLocation:  d.Pickup(),
		DropLocation:    d.Drop(),
		ReceiverContact: d.ReceiverContact(),
		PackageSize:     string(d.PackageSize()),
		VehicleType:     string(d.VehicleType()),
		Status:          string(d.Status()),
		Payment:         d.Payment(),
		RouteSpec:       d.RouteSpec(),
		CancelReason:    d.CancelReason(),
		AcceptedAt:      d.AcceptedAt(),
		PickedUpAt:      d.PickedUpAt(),
		DeliveredAt:     d.DeliveredAt(),
		CancelledAt:     d.CancelledAt(),
		Version:         d.Version(),
		CreatedAt:       d.CreatedAt(),
		UpdatedAt:       d.UpdatedAt(),
	}
}

func toDeliveryDTOs(deliveries []*deliveryDomain.DeliveryRequest) []DeliveryDTO {
	dtos := make([]DeliveryDTO, len(deliveries))
	for i, d := range deliveries {
		dtos[i] = toDeliveryDTO(d)
	}
	return dtos
}
