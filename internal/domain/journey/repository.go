package journey

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for journeys.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Journey, error)
	FindByTravelerID(ctx context.Context, travelerID uuid.UUID) ([]*Journey, error)
	Save(ctx context.Context, j *Journey) error
	Update(ctx context.Context, j *Journey) error
}
