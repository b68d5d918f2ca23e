package staff

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hemo/hemo/internal/platform/auth"
)

type contextKey string

const staffKey contextKey = "staff"

// WithStaff returns a context carrying the resolved staff record.
func WithStaff(ctx context.Context, s *Staff) context.Context {
	return context.WithValue(ctx, staffKey, s)
}

// FromContext retrieves the staff record attached by RequirePosition.
func FromContext(ctx context.Context) (*Staff, bool) {
	s, ok := ctx.Value(staffKey).(*Staff)
	return s, ok
}

func positionList(positions []Position) string {
	names := make([]string, len(positions))
	for i, p := range positions {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

// RequirePosition returns middleware that resolves the caller's staff record
// and rejects callers whose position is not in the allow-list. The lookup is
// scoped by (staffID, facilityID) from the token claims and excludes
// soft-deleted records. Every failure, including lookup errors, is a 403:
// authorization never grants access on an ambiguous failure.
func RequirePosition(repo Repository, positions ...Position) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			id, ok := auth.IdentityFromContext(ctx)
			if !ok || !id.IsStaff() {
				return echo.NewHTTPError(http.StatusForbidden, "staff information not found")
			}

			staffID, err := uuid.Parse(id.StaffID)
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, "staff information not found")
			}
			facilityID, err := uuid.Parse(id.FacilityID)
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, "staff information not found")
			}

			s, err := repo.GetActive(ctx, staffID, facilityID)
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden,
					"staff not found or not assigned to this facility")
			}

			allowed := false
			for _, p := range positions {
				if s.Position == p {
					allowed = true
					break
				}
			}
			if !allowed {
				return echo.NewHTTPError(http.StatusForbidden, fmt.Sprintf(
					"staff does not have permission. Required positions: %s. Your position: %s",
					positionList(positions), s.Position))
			}

			c.SetRequest(c.Request().WithContext(WithStaff(ctx, s)))
			return next(c)
		}
	}
}
