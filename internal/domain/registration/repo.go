package registration

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository provides access to registration records. UpdateStatus is called
// inside the health-check workflow transaction; it honors a transaction
// carried on the context.
type Repository interface {
	Create(ctx context.Context, reg *Registration) error
	GetByID(ctx context.Context, id uuid.UUID) (*Registration, error)
	// UpdateStatus sets the status and, when checkInAt is non-nil, stamps the
	// check-in time.
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, checkInAt *time.Time) error
	ListByFacility(ctx context.Context, facilityID uuid.UUID, limit, offset int) ([]*Registration, int, error)
}
