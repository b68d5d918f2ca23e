package auth

import (
	"context"

	"github.com/hemo/hemo/internal/platform/token"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the verified request identity attached by the auth middleware.
// StaffID and FacilityID are empty for plain members and for identities
// derived from a refresh token.
type Identity struct {
	UserID     string
	Email      string
	Role       Role
	StaffID    string
	FacilityID string
}

// IsStaff reports whether the identity carries facility-staff claims.
func (id Identity) IsStaff() bool {
	return id.StaffID != "" && id.FacilityID != ""
}

func identityFromClaims(c *token.Claims) Identity {
	return Identity{
		UserID:     c.UserID,
		Email:      c.Email,
		Role:       Role(c.Role),
		StaffID:    c.StaffID,
		FacilityID: c.FacilityID,
	}
}

// WithIdentity returns a context carrying the verified identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext retrieves the verified identity from context. The
// second return value is false when the request was not authenticated.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
