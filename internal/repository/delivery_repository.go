package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/domain"
	deliveryDomain "github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/delivery"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/geo"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/vehicle"
)

// DeliveryModel is the GORM model for the deliveries table.
type DeliveryModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SenderID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	TravelerID      *uuid.UUID      `gorm:"type:uuid;index"`
	PickupLocation  json.RawMessage `gorm:"type:jsonb;not null"`
	DropLocation    json.RawMessage `gorm:"type:jsonb;not null"`
	ReceiverContact string          `gorm:"not null;size:10"`
	PackageSize     string          `gorm:"not null;size:1"`
	VehicleType     string          `gorm:"not null;size:30;index"`
	Status          string          `gorm:"not null;size:30;index"`
	AmountCents     int64           `gorm:"not null"`
	Currency        string          `gorm:"not null;size:3;default:'INR'"`
	PaymentStatus   string          `gorm:"not null;size:20;default:'pending'"`
	RouteSpec       json.RawMessage `gorm:"type:jsonb"`
	CancelReason    string          `gorm:"size:500"`
	AcceptedAt      *time.Time      `gorm:""`
	PickedUpAt      *time.Time      `gorm:""`
	DeliveredAt     *time.Time      `gorm:""`
	CancelledAt     *time.Time      `gorm:""`
	Version         int64           `gorm:"not null;default:1"`
	CreatedAt       time.Time       `gorm:"not null;index"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (DeliveryModel) TableName() string {
	return "deliveries"
}

// GormDeliveryRepository is the GORM-based implementation of delivery.Repository.
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a new GormDeliveryRepository.
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// FindByID retrieves a delivery by its unique identifier.
func (r *GormDeliveryRepository) FindByID(ctx context.Context, id uuid.UUID) (*deliveryDomain.DeliveryRequest, error) {
	var model DeliveryModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Delivery", id.String())
		}
		return nil, fmt.Errorf("failed to find delivery by ID: %w", err)
	}
	return toDomainDelivery(&model)
}

// FindBySenderID retrieves deliveries created by a sender with pagination.
func (r *GormDeliveryRepository) FindBySenderID(ctx context.Context, senderID uuid.UUID, page, limit int) ([]*deliveryDomain.DeliveryRequest, int64, error) {
	return r.paginate(ctx, whereEq("sender_id", senderID), page, limit)
}

// FindByTravelerID retrieves deliveries assigned to a traveler with pagination.
func (r *GormDeliveryRepository) FindByTravelerID(ctx context.Context, travelerID uuid.UUID, page, limit int) ([]*deliveryDomain.DeliveryRequest, int64, error) {
	return r.paginate(ctx, whereEq("traveler_id", travelerID), page, limit)
}

// ListAll retrieves all deliveries with pagination (admin).
func (r *GormDeliveryRepository) ListAll(ctx context.Context, page, limit int) ([]*deliveryDomain.DeliveryRequest, int64, error) {
	return r.paginate(ctx, func(db *gorm.DB) *gorm.DB { return db }, page, limit)
}

// FindPending retrieves one page of pending deliveries, oldest first. The area filter reads the
// coordinates out of the jsonb location columns.
func (r *GormDeliveryRepository) FindPending(ctx context.Context, q deliveryDomain.PendingQuery) ([]*deliveryDomain.DeliveryRequest, error) {
	query := r.db.WithContext(ctx).Where("status = ?", string(deliveryDomain.StatusPending))
	if q.VehicleType != "" {
		query = query.Where("vehicle_type = ?", string(q.VehicleType))
	}
	if q.Area != nil {
		query = query.Scopes(withinArea("pickup_location", *q.Area), withinArea("drop_location", *q.Area))
	}
	if q.After != nil {
		query = query.Where("(created_at, id) > (?, ?)", q.After.CreatedAt, q.After.ID)
	}

	var models []DeliveryModel
	if err := query.Order("created_at ASC, id ASC").Limit(q.Limit).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find pending deliveries: %w", err)
	}
	return toDomainDeliveries(models)
}

func withinArea(column string, area geo.BoundingBox) func(*gorm.DB) *gorm.DB {
	lat := fmt.Sprintf("(%s->>'latitude')::double precision", column)
	lng := fmt.Sprintf("(%s->>'longitude')::double precision", column)
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where(lat+" BETWEEN ? AND ?", area.MinLat, area.MaxLat)
		if !area.AllLongitudes {
			db = db.Where(lng+" BETWEEN ? AND ?", area.MinLng, area.MaxLng)
		}
		return db
	}
}

func whereEq(column string, value interface{}) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" = ?", value)
	}
}

func (r *GormDeliveryRepository) paginate(ctx context.Context, scope func(*gorm.DB) *gorm.DB, page, limit int) ([]*deliveryDomain.DeliveryRequest, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&DeliveryModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count deliveries: %w", err)
	}

	var models []DeliveryModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Scopes(scope).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find deliveries: %w", err)
	}

	deliveries, err := toDomainDeliveries(models)
	if err != nil {
		return nil, 0, err
	}
	return deliveries, total, nil
}

// Save persists a new delivery.
func (r *GormDeliveryRepository) Save(ctx context.Context, d *deliveryDomain.DeliveryRequest) error {
	model, err := toDeliveryModel(d)
	if err != nil {
		return fmt.Errorf("failed to convert delivery to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save delivery: %w", err)
	}
	return nil
}

// Update persists changes to an existing delivery with optimistic locking.
func (r *GormDeliveryRepository) Update(ctx context.Context, d *deliveryDomain.DeliveryRequest) error {
	model, err := toDeliveryModel(d)
	if err != nil {
		return fmt.Errorf("failed to convert delivery to model: %w", err)
	}

	// The aggregate has already been bumped by IncrementVersion.
	expectedVersion := d.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&DeliveryModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"traveler_id":    model.TravelerID,
			"status":         model.Status,
			"payment_status": model.PaymentStatus,
			"cancel_reason":  model.CancelReason,
			"accepted_at":    model.AcceptedAt,
			"picked_up_at":   model.PickedUpAt,
			"delivered_at":   model.DeliveredAt,
			"cancelled_at":   model.CancelledAt,
			"version":        model.Version,
			"updated_at":     model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update delivery: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("delivery was modified by another transaction")
	}

	return nil
}

// CountByStatus returns delivery counts grouped by status (admin).
func (r *GormDeliveryRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&DeliveryModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// --- Conversion Helpers ---

func toDeliveryModel(d *deliveryDomain.DeliveryRequest) (*DeliveryModel, error) {
	pickupJSON, err := json.Marshal(d.Pickup())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pickup location: %w", err)
	}

	dropJSON, err := json.Marshal(d.Drop())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal drop location: %w", err)
	}

	var routeSpecJSON json.RawMessage
	if d.RouteSpec() != nil {
		data, err := json.Marshal(d.RouteSpec())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal route spec: %w", err)
		}
		routeSpecJSON = data
	}

	payment := d.Payment()
	return &DeliveryModel{
		ID:              d.ID(),
		SenderID:        d.SenderID(),
		TravelerID:      d.TravelerID(),
		PickupLocation:  pickupJSON,
		DropLocation:    dropJSON,
		ReceiverContact: d.ReceiverContact(),
		PackageSize:     string(d.PackageSize()),
		VehicleType:     string(d.VehicleType()),
		Status:          string(d.Status()),
		AmountCents:     payment.AmountCents,
		Currency:        payment.Currency,
		PaymentStatus:   string(payment.Status),
		RouteSpec:       routeSpecJSON,
		CancelReason:    d.CancelReason(),
		AcceptedAt:      d.AcceptedAt(),
		PickedUpAt:      d.PickedUpAt(),
		DeliveredAt:     d.DeliveredAt(),
		CancelledAt:     d.CancelledAt(),
		Version:         d.Version(),
		CreatedAt:       d.CreatedAt(),
		UpdatedAt:       d.UpdatedAt(),
	}, nil
}

func toDomainDelivery(m *DeliveryModel) (*deliveryDomain.DeliveryRequest, error) {
	var pickup geo.Location
	if err := json.Unmarshal(m.PickupLocation, &pickup); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pickup location: %w", err)
	}

	var drop geo.Location
	if err := json.Unmarshal(m.DropLocation, &drop); err != nil {
		return nil, fmt.Errorf("failed to unmarshal drop location: %w", err)
	}

	var routeSpec *deliveryDomain.RouteSpecification
	if len(m.RouteSpec) > 0 {
		var rs deliveryDomain.RouteSpecification
		if err := json.Unmarshal(m.RouteSpec, &rs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal route spec: %w", err)
		}
		routeSpec = &rs
	}

	status, err := deliveryDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return deliveryDomain.ReconstructDeliveryRequest(
		m.ID,
		m.SenderID,
		m.TravelerID,
		pickup,
		drop,
		m.ReceiverContact,
		deliveryDomain.PackageSize(m.PackageSize),
		vehicle.Type(m.VehicleType),
		status,
		deliveryDomain.Payment{
			AmountCents: m.AmountCents,
			Currency:    m.Currency,
			Status:      deliveryDomain.PaymentStatus(m.PaymentStatus),
		},
		routeSpec,
		m.CancelReason,
		m.AcceptedAt,
		m.PickedUpAt,
		m.DeliveredAt,
		m.CancelledAt,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainDeliveries(models []DeliveryModel) ([]*deliveryDomain.DeliveryRequest, error) {
	deliveries := make([]*deliveryDomain.DeliveryRequest, len(models))
	for i := range models {
		d, err := toDomainDelivery(&models[i])
		if err != nil {
			return nil, err
		}
		deliveries[i] = d
	}
	return deliveries, nil
}
