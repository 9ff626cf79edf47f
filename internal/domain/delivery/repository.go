package delivery

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/geo"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/vehicle"
)

// PendingQuery selects pending deliveries for an order check. Pages are ordered by creation
// time, then ID.
type PendingQuery struct {
	// VehicleType restricts the page to one vehicle class. Empty matches every vehicle.
	VehicleType vehicle.Type
	// Area, when set, keeps deliveries whose pickup and drop both lie inside it.
	Area *geo.BoundingBox
	// After resumes from the last delivery of the previous page.
	After *PendingCursor
	Limit int
}

// PendingCursor marks a position in the pending order.
type PendingCursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// CursorAfter returns the cursor positioned after d.
func CursorAfter(d *DeliveryRequest) *PendingCursor {
	return &PendingCursor{CreatedAt: d.CreatedAt(), ID: d.ID()}
}

// Repository defines the persistence contract for delivery requests.
type Repository interface {
	// FindByID retrieves a delivery by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*DeliveryRequest, error)

	// FindBySenderID retrieves deliveries created by a sender with pagination.
	FindBySenderID(ctx context.Context, senderID uuid.UUID, page, limit int) ([]*DeliveryRequest, int64, error)

	// FindByTravelerID retrieves deliveries assigned to a traveler with pagination.
	FindByTravelerID(ctx context.Context, travelerID uuid.UUID, page, limit int) ([]*DeliveryRequest, int64, error)

	// FindPending retrieves one page of pending deliveries selected by q.
	FindPending(ctx context.Context, q PendingQuery) ([]*DeliveryRequest, error)

	// ListAll retrieves all deliveries with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*DeliveryRequest, int64, error)

	// CountByStatus returns delivery counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new delivery.
	Save(ctx context.Context, d *DeliveryRequest) error

	// Update persists changes to an existing delivery with optimistic locking.
	Update(ctx context.Context, d *DeliveryRequest) error
}
