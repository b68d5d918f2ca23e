package healthcheck

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hemo/hemo/internal/domain/staff"
	"github.com/hemo/hemo/internal/platform/auth"
	"github.com/hemo/hemo/pkg/pagination"
	"github.com/hemo/hemo/pkg/respond"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the health-check endpoints on role- and
// position-gated groups. The position guard resolves the acting staff record
// and attaches it to the request context.
func (h *Handler) RegisterRoutes(api *echo.Group, staffRepo staff.Repository) {
	nurse := api.Group("",
		auth.RequireRole(auth.RoleNurse, auth.RoleAdmin),
		staff.RequirePosition(staffRepo, staff.PositionNurse))
	nurse.POST("/health-checks", h.Create)
	nurse.GET("/health-checks/nurse", h.ListByNurse)

	doctor := api.Group("",
		auth.RequireRole(auth.RoleDoctor, auth.RoleAdmin),
		staff.RequirePosition(staffRepo, staff.PositionDoctor))
	doctor.PUT("/health-checks/:id", h.Update)
	doctor.GET("/health-checks/doctor", h.ListByDoctor)

	facility := api.Group("",
		auth.RequireRole(auth.RoleManager, auth.RoleAdmin),
		staff.RequirePosition(staffRepo, staff.PositionManager))
	facility.GET("/health-checks/facility", h.ListByFacility)

	api.GET("/health-checks/user", h.ListByUser, auth.RequireRole(auth.RoleMember))

	api.GET("/health-checks/:id", h.Get)
}

type createRequest struct {
	RegistrationID   string     `json:"registrationId"`
	UserID           string     `json:"userId"`
	DoctorID         string     `json:"doctorId"`
	CheckDate        *time.Time `json:"checkDate"`
	BloodPressure    *string    `json:"bloodPressure"`
	Hemoglobin       *float64   `json:"hemoglobin"`
	Weight           *float64   `json:"weight"`
	Pulse            *int       `json:"pulse"`
	Temperature      *float64   `json:"temperature"`
	GeneralCondition *string    `json:"generalCondition"`
	Notes            *string    `json:"notes"`
}

func (h *Handler) Create(c echo.Context) error {
	nurse, ok := staff.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "staff information not found")
	}

	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.RegistrationID == "" || req.UserID == "" || req.DoctorID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "registrationId, userId and doctorId are required")
	}

	regID, err := uuid.Parse(req.RegistrationID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid registrationId")
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid userId")
	}
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctorId")
	}

	view, err := h.svc.Create(c.Request().Context(), nurse, CreateInput{
		RegistrationID:   regID,
		UserID:           userID,
		DoctorID:         doctorID,
		CheckDate:        req.CheckDate,
		BloodPressure:    req.BloodPressure,
		Hemoglobin:       req.Hemoglobin,
		Weight:           req.Weight,
		Pulse:            req.Pulse,
		Temperature:      req.Temperature,
		GeneralCondition: req.GeneralCondition,
		Notes:            req.Notes,
	})
	if err != nil {
		return domainError(err)
	}
	return respond.Created(c, "health check created", view)
}

type updateRequest struct {
	CheckDate        *time.Time `json:"checkDate"`
	IsEligible       *bool      `json:"isEligible"`
	BloodPressure    *string    `json:"bloodPressure"`
	Hemoglobin       *float64   `json:"hemoglobin"`
	Weight           *float64   `json:"weight"`
	Pulse            *int       `json:"pulse"`
	Temperature      *float64   `json:"temperature"`
	GeneralCondition *string    `json:"generalCondition"`
	DeferralReason   *string    `json:"deferralReason"`
	Notes            *string    `json:"notes"`
}

func (h *Handler) Update(c echo.Context) error {
	doctor, ok := staff.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "staff information not found")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	view, err := h.svc.Update(c.Request().Context(), doctor, id, UpdateInput{
		CheckDate:        req.CheckDate,
		IsEligible:       req.IsEligible,
		BloodPressure:    req.BloodPressure,
		Hemoglobin:       req.Hemoglobin,
		Weight:           req.Weight,
		Pulse:            req.Pulse,
		Temperature:      req.Temperature,
		GeneralCondition: req.GeneralCondition,
		DeferralReason:   req.DeferralReason,
		Notes:            req.Notes,
	})
	if err != nil {
		return domainError(err)
	}
	return respond.OK(c, "health check updated", view)
}

func (h *Handler) ListByFacility(c echo.Context) error {
	actor, ok := staff.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "staff information not found")
	}
	views, total, err := h.svc.ListByFacility(c.Request().Context(), actor.FacilityID, listOptions(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(views, total, pagination.FromContext(c)))
}

func (h *Handler) ListByDoctor(c echo.Context) error {
	doctor, ok := staff.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "staff information not found")
	}
	views, total, err := h.svc.ListByDoctor(c.Request().Context(), doctor, listOptions(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(views, total, pagination.FromContext(c)))
}

func (h *Handler) ListByNurse(c echo.Context) error {
	nurse, ok := staff.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "staff information not found")
	}
	views, total, err := h.svc.ListByNurse(c.Request().Context(), nurse, listOptions(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(views, total, pagination.FromContext(c)))
}

func (h *Handler) ListByUser(c echo.Context) error {
	id, ok := auth.IdentityFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "user information or role not found")
	}
	userID, err := uuid.Parse(id.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "user information or role not found")
	}
	views, total, err := h.svc.ListByUser(c.Request().Context(), userID, listOptions(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(views, total, pagination.FromContext(c)))
}

func (h *Handler) Get(c echo.Context) error {
	caller, ok := auth.IdentityFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "user information or role not found")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	view, err := h.svc.Get(c.Request().Context(), caller, id)
	if err != nil {
		return domainError(err)
	}
	return respond.OK(c, "health check", view)
}

// listOptions extracts the shared listing knobs. status=eligible filters to
// eligible records; any other non-empty status value filters to deferred ones.
func listOptions(c echo.Context) ListOptions {
	opts := ListOptions{
		SortBy: c.QueryParam("sortBy"),
		Search: c.QueryParam("search"),
		Page:   pagination.FromContext(c),
	}
	if status := c.QueryParam("status"); status != "" {
		eligible := status == "eligible"
		opts.Eligible = &eligible
	}
	return opts
}

func domainError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrRegistrationNotFound),
		errors.Is(err, ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotAssigned):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrDoctorNotFound),
		errors.Is(err, ErrNotCheckedIn),
		errors.Is(err, ErrDeferralRequired),
		errors.Is(err, ErrInvalidSort):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
