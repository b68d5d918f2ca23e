package healthcheck

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hemo/hemo/internal/platform/auth"
	"github.com/hemo/hemo/pkg/respond"
)

// test middleware that builds the request identity from headers, standing in
// for the token middleware.
func testIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if userID := c.Request().Header.Get("X-Test-User"); userID != "" {
			id := auth.Identity{
				UserID:     userID,
				Role:       auth.Role(c.Request().Header.Get("X-Test-Role")),
				StaffID:    c.Request().Header.Get("X-Test-Staff"),
				FacilityID: c.Request().Header.Get("X-Test-Facility"),
			}
			c.SetRequest(c.Request().WithContext(auth.WithIdentity(c.Request().Context(), id)))
		}
		return next(c)
	}
}

func newTestServer(f *fixture) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = respond.HTTPErrorHandler(zerolog.Nop())
	api := e.Group("/api/v1", testIdentity)
	NewHandler(f.svc).RegisterRoutes(api, f.staff)
	return e
}

func (f *fixture) asNurse(req *http.Request) {
	req.Header.Set("X-Test-User", f.nurse.UserID.String())
	req.Header.Set("X-Test-Role", string(auth.RoleNurse))
	req.Header.Set("X-Test-Staff", f.nurse.ID.String())
	req.Header.Set("X-Test-Facility", f.nurse.FacilityID.String())
}

func (f *fixture) asDoctor(req *http.Request, d *staffRecord) {
	req.Header.Set("X-Test-User", d.userID)
	req.Header.Set("X-Test-Role", string(auth.RoleDoctor))
	req.Header.Set("X-Test-Staff", d.staffID)
	req.Header.Set("X-Test-Facility", d.facilityID)
}

type staffRecord struct {
	userID, staffID, facilityID string
}

func (f *fixture) assignedDoctor() *staffRecord {
	return &staffRecord{
		userID:     f.doctor.UserID.String(),
		staffID:    f.doctor.ID.String(),
		facilityID: f.doctor.FacilityID.String(),
	}
}

func TestHandlerCreateReturns201(t *testing.T) {
	f := newFixture(t)
	e := newTestServer(f)

	body := `{"registrationId":"` + f.reg.ID.String() + `",` +
		`"userId":"` + f.donor.ID.String() + `",` +
		`"doctorId":"` + f.doctor.ID.String() + `",` +
		`"bloodPressure":"120/80","weight":62.5}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/health-checks", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	f.asNurse(req)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Status string `json:"status"`
		Data   View   `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Status != "success" {
		t.Errorf("envelope status = %q", envelope.Status)
	}
	if envelope.Data.BloodPressure == nil || *envelope.Data.BloodPressure != "120/80" {
		t.Errorf("blood pressure not persisted: %+v", envelope.Data.HealthCheck)
	}
	if len(f.logs.entries) != 1 || f.logs.entries[0].Notes != noteCheckStarted {
		t.Errorf("expected one %q log entry", noteCheckStarted)
	}
}

func TestHandlerCreateRejectsMalformedDoctorID(t *testing.T) {
	f := newFixture(t)
	e := newTestServer(f)

	body := `{"registrationId":"` + f.reg.ID.String() + `",` +
		`"userId":"` + f.donor.ID.String() + `","doctorId":"not-a-uuid"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/health-checks", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	f.asNurse(req)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var envelope respond.Error
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Status != "error" || envelope.Message != "invalid doctorId" {
		t.Errorf("envelope = %+v", envelope)
	}
}

func TestHandlerCreateForbiddenForDoctor(t *testing.T) {
	f := newFixture(t)
	e := newTestServer(f)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/health-checks", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	f.asDoctor(req, f.assignedDoctor())
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403: %s", rec.Code, rec.Body.String())
	}
}

func TestHandlerDeferralScenario(t *testing.T) {
	f := newFixture(t)
	e := newTestServer(f)
	view := f.mustCreate(t)

	body := `{"isEligible":false,"deferralReason":"Huyết áp không ổn định"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/health-checks/"+view.ID.String(), strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	f.asDoctor(req, f.assignedDoctor())
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data View `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.DeferralReason == nil || *envelope.Data.DeferralReason != "Huyết áp không ổn định" {
		t.Errorf("deferral reason = %v", envelope.Data.DeferralReason)
	}

	last := f.logs.entries[len(f.logs.entries)-1]
	if last.Notes != noteDeferred {
		t.Errorf("log note = %q, want %q", last.Notes, noteDeferred)
	}
	lastN := f.notifier.sent[len(f.notifier.sent)-1]
	if lastN.status != "REGISTERED" {
		t.Errorf("notification status = %q, want REGISTERED", lastN.status)
	}
}

func TestHandlerUpdateNonAssignedDoctorRejected(t *testing.T) {
	f := newFixture(t)
	view := f.mustCreate(t)

	// second doctor in the same facility, not assigned to this check
	other := *f.doctor
	other.ID = uuid.New()
	other.UserID = uuid.New()
	f.staff.byID[other.ID] = &other

	e := newTestServer(f)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/health-checks/"+view.ID.String(),
		strings.NewReader(`{"isEligible":true}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	f.asDoctor(req, &staffRecord{
		userID:     other.UserID.String(),
		staffID:    other.ID.String(),
		facilityID: other.FacilityID.String(),
	})
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403: %s", rec.Code, rec.Body.String())
	}
	var envelope respond.Error
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Message != ErrNotAssigned.Error() {
		t.Errorf("message = %q", envelope.Message)
	}
}

func TestHandlerListInvalidSort(t *testing.T) {
	f := newFixture(t)
	e := newTestServer(f)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health-checks/nurse?sortBy=weight", nil)
	f.asNurse(req)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func TestHandlerGetAnonymousForbidden(t *testing.T) {
	f := newFixture(t)
	e := newTestServer(f)
	view := f.mustCreate(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health-checks/"+view.ID.String(), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}
