package healthcheck

import (
	"context"

	"github.com/google/uuid"

	"github.com/hemo/hemo/pkg/pagination"
)

// SortField values accepted by the list endpoints, keyed by their API names.
var sortFields = map[string]string{
	"createdAt": "hc.created_at",
	"updatedAt": "hc.updated_at",
	"checkDate": "hc.check_date",
}

// ListFilter scopes a health-check listing. Nil fields are not applied.
type ListFilter struct {
	FacilityID *uuid.UUID
	DoctorID   *uuid.UUID
	StaffID    *uuid.UUID
	UserID     *uuid.UUID
	IsEligible *bool
	// Search matches case-insensitively against general condition, notes,
	// and deferral reason.
	Search string
	// SortColumn is a value from sortFields, resolved by the service.
	SortColumn string
}

// Repository provides access to health-check records.
type Repository interface {
	Create(ctx context.Context, hc *HealthCheck) error
	GetByID(ctx context.Context, id uuid.UUID) (*HealthCheck, error)
	// GetView returns the record with user, staff, and facility fields joined.
	GetView(ctx context.Context, id uuid.UUID) (*View, error)
	Update(ctx context.Context, hc *HealthCheck) error
	List(ctx context.Context, filter ListFilter, p pagination.Params) ([]*View, int, error)
}
