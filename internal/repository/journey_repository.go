package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/domain"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/geo"
	journeyDomain "github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/journey"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/vehicle"
)

// JourneyModel is the GORM model for the journeys table.
type JourneyModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	TravelerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	StartAddress string    `gorm:"type:text;not null"`
	StartLat     float64   `gorm:"type:double precision;not null"`
	StartLng     float64   `gorm:"type:double precision;not null"`
	EndAddress   string    `gorm:"type:text;not null"`
	EndLat       float64   `gorm:"type:double precision;not null"`
	EndLng       float64   `gorm:"type:double precision;not null"`
	VehicleType  string    `gorm:"type:varchar(30);not null"`
	Status       string    `gorm:"type:varchar(20);not null;default:'active';index"`
	Version      int64     `gorm:"not null;default:1"`
	CreatedAt    time.Time `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt    time.Time `gorm:"type:timestamptz;not null;default:now()"`
}

func (JourneyModel) TableName() string { return "journeys" }

// GormJourneyRepository implements journey.Repository using GORM.
type GormJourneyRepository struct {
	db *gorm.DB
}

func NewGormJourneyRepository(db *gorm.DB) *GormJourneyRepository {
	return &GormJourneyRepository{db: db}
}

func (r *GormJourneyRepository) FindByID(ctx context.Context, id uuid.UUID) (*journeyDomain.Journey, error) {
	var model JourneyModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Journey", id.String())
		}
		return nil, fmt.Errorf("failed to find journey: %w", err)
	}
	return toJourneyDomain(&model)
}

func (r *GormJourneyRepository) FindByTravelerID(ctx context.Context, travelerID uuid.UUID) ([]*journeyDomain.Journey, error) {
	var models []JourneyModel
	if err := r.db.WithContext(ctx).
		Where("traveler_id = ?", travelerID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find journeys: %w", err)
	}
	journeys := make([]*journeyDomain.Journey, len(models))
	for i := range models {
		j, err := toJourneyDomain(&models[i])
		if err != nil {
			return nil, err
		}
		journeys[i] = j
	}
	return journeys, nil
}

func (r *GormJourneyRepository) Save(ctx context.Context, j *journeyDomain.Journey) error {
	model := toJourneyModel(j)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save journey: %w", err)
	}
	return nil
}

// Update writes the status change. Journey.UpdateStatus has already bumped the version.
func (r *GormJourneyRepository) Update(ctx context.Context, j *journeyDomain.Journey) error {
	model := toJourneyModel(j)
	previousVersion := j.Version() - 1

	result := r.db.WithContext(ctx).
		Model(&JourneyModel{}).
		Where("id = ? AND version = ?", model.ID, previousVersion).
		Updates(map[string]interface{}{
			"status":     model.Status,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update journey: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("journey was modified by another transaction")
	}
	return nil
}

// --- Conversions ---

func toJourneyModel(j *journeyDomain.Journey) *JourneyModel {
	start, end := j.Start(), j.End()
	return &JourneyModel{
		ID:           j.ID(),
		TravelerID:   j.TravelerID(),
		StartAddress: start.Address,
		StartLat:     start.Latitude,
		StartLng:     start.Longitude,
		EndAddress:   end.Address,
		EndLat:       end.Latitude,
		EndLng:       end.Longitude,
		VehicleType:  string(j.VehicleType()),
		Status:       string(j.Status()),
		Version:      j.Version(),
		CreatedAt:    j.CreatedAt(),
		UpdatedAt:    j.UpdatedAt(),
	}
}

func toJourneyDomain(m *JourneyModel) (*journeyDomain.Journey, error) {
	status, err := journeyDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}
	return journeyDomain.Reconstruct(
		m.ID, m.TravelerID,
		geo.Location{Address: m.StartAddress, Point: geo.Point{Latitude: m.StartLat, Longitude: m.StartLng}},
		geo.Location{Address: m.EndAddress, Point: geo.Point{Latitude: m.EndLat, Longitude: m.EndLng}},
		vehicle.Type(m.VehicleType),
		status,
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	), nil
}
