package staff

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hemo/hemo/internal/platform/auth"
)

type mockRepo struct {
	byScope map[string]*Staff
	err     error
}

func (m *mockRepo) Create(context.Context, *Staff) error { return nil }
func (m *mockRepo) GetActive(_ context.Context, id, facilityID uuid.UUID) (*Staff, error) {
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.byScope[id.String()+"/"+facilityID.String()]
	if !ok {
		return nil, errors.New("no rows in result set")
	}
	return s, nil
}
func (m *mockRepo) GetByID(context.Context, uuid.UUID) (*Staff, error)       { return nil, nil }
func (m *mockRepo) GetByUserID(context.Context, uuid.UUID) (*Staff, error)   { return nil, nil }
func (m *mockRepo) SoftDelete(context.Context, uuid.UUID) error              { return nil }
func (m *mockRepo) ListByFacility(context.Context, uuid.UUID, int, int) ([]*Staff, int, error) {
	return nil, 0, nil
}

func guardRequest(t *testing.T, repo Repository, id *auth.Identity, positions ...Position) (*httptest.ResponseRecorder, error, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id != nil {
		req = req.WithContext(auth.WithIdentity(req.Context(), *id))
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	handler := RequirePosition(repo, positions...)(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	return rec, handler(c), reached
}

func TestRequirePositionNoStaffClaims(t *testing.T) {
	id := &auth.Identity{UserID: uuid.NewString(), Role: auth.RoleNurse}
	_, err, reached := guardRequest(t, &mockRepo{}, id, PositionNurse)
	if reached {
		t.Fatal("handler reached without staff claims")
	}
	assertHTTPError(t, err, http.StatusForbidden, "staff information not found")
}

func TestRequirePositionNoIdentity(t *testing.T) {
	_, err, reached := guardRequest(t, &mockRepo{}, nil, PositionNurse)
	if reached {
		t.Fatal("handler reached without identity")
	}
	assertHTTPError(t, err, http.StatusForbidden, "staff information not found")
}

func TestRequirePositionNotFound(t *testing.T) {
	id := &auth.Identity{
		UserID:     uuid.NewString(),
		Role:       auth.RoleNurse,
		StaffID:    uuid.NewString(),
		FacilityID: uuid.NewString(),
	}
	_, err, reached := guardRequest(t, &mockRepo{byScope: map[string]*Staff{}}, id, PositionNurse)
	if reached {
		t.Fatal("handler reached for unknown staff")
	}
	assertHTTPError(t, err, http.StatusForbidden, "staff not found or not assigned to this facility")
}

func TestRequirePositionLookupErrorFailsClosed(t *testing.T) {
	id := &auth.Identity{
		UserID:     uuid.NewString(),
		Role:       auth.RoleNurse,
		StaffID:    uuid.NewString(),
		FacilityID: uuid.NewString(),
	}
	_, err, reached := guardRequest(t, &mockRepo{err: errors.New("connection reset")}, id, PositionNurse)
	if reached {
		t.Fatal("handler reached despite lookup failure")
	}
	assertHTTPError(t, err, http.StatusForbidden, "staff not found or not assigned to this facility")
}

func TestRequirePositionWrongFacility(t *testing.T) {
	staffID := uuid.New()
	homeFacility := uuid.New()
	repo := &mockRepo{byScope: map[string]*Staff{
		staffID.String() + "/" + homeFacility.String(): {
			ID: staffID, FacilityID: homeFacility, Position: PositionNurse,
		},
	}}

	id := &auth.Identity{
		UserID:     uuid.NewString(),
		Role:       auth.RoleNurse,
		StaffID:    staffID.String(),
		FacilityID: uuid.NewString(), // different facility
	}
	_, err, reached := guardRequest(t, repo, id, PositionNurse)
	if reached {
		t.Fatal("handler reached for staff of another facility")
	}
	assertHTTPError(t, err, http.StatusForbidden, "staff not found or not assigned to this facility")
}

func TestRequirePositionDenied(t *testing.T) {
	staffID := uuid.New()
	facilityID := uuid.New()
	repo := &mockRepo{byScope: map[string]*Staff{
		staffID.String() + "/" + facilityID.String(): {
			ID: staffID, FacilityID: facilityID, Position: PositionNurse,
		},
	}}

	id := &auth.Identity{
		UserID:     uuid.NewString(),
		Role:       auth.RoleNurse,
		StaffID:    staffID.String(),
		FacilityID: facilityID.String(),
	}
	_, err, reached := guardRequest(t, repo, id, PositionDoctor)
	if reached {
		t.Fatal("handler reached with wrong position")
	}

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
	msg := he.Message.(string)
	if !strings.Contains(msg, "DOCTOR") || !strings.Contains(msg, "NURSE") {
		t.Errorf("message should enumerate required and actual positions: %q", msg)
	}
}

func TestRequirePositionAllowedAttachesStaff(t *testing.T) {
	staffID := uuid.New()
	facilityID := uuid.New()
	record := &Staff{ID: staffID, FacilityID: facilityID, Position: PositionDoctor}
	repo := &mockRepo{byScope: map[string]*Staff{
		staffID.String() + "/" + facilityID.String(): record,
	}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{
		UserID:     uuid.NewString(),
		Role:       auth.RoleDoctor,
		StaffID:    staffID.String(),
		FacilityID: facilityID.String(),
	}))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got *Staff
	handler := RequirePosition(repo, PositionNurse, PositionDoctor)(func(c echo.Context) error {
		got, _ = FromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if got == nil || got.ID != staffID {
		t.Fatalf("resolved staff not attached to context: %+v", got)
	}
}

func TestPositionValid(t *testing.T) {
	for _, tc := range []struct {
		pos  Position
		want bool
	}{
		{PositionNurse, true},
		{PositionDoctor, true},
		{PositionManager, true},
		{Position("RECEPTIONIST"), false},
		{Position(""), false},
	} {
		if got := tc.pos.Valid(); got != tc.want {
			t.Errorf("Valid(%q) = %v, want %v", tc.pos, got, tc.want)
		}
	}
}

func assertHTTPError(t *testing.T, err error, code int, message string) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != code {
		t.Errorf("code = %d, want %d", he.Code, code)
	}
	if msg, _ := he.Message.(string); msg != message {
		t.Errorf("message = %q, want %q", msg, message)
	}
}
