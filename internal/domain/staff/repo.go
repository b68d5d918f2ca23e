package staff

import (
	"context"

	"github.com/google/uuid"
)

// Repository provides access to facility staff records. Every read excludes
// soft-deleted rows.
type Repository interface {
	Create(ctx context.Context, s *Staff) error
	// GetActive looks up a staff record scoped to one facility. Returns
	// pgx.ErrNoRows (wrapped by the caller) when no active record matches.
	GetActive(ctx context.Context, id, facilityID uuid.UUID) (*Staff, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Staff, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Staff, error)
	ListByFacility(ctx context.Context, facilityID uuid.UUID, limit, offset int) ([]*Staff, int, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
