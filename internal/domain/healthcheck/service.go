package healthcheck

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hemo/hemo/internal/domain/donationlog"
	"github.com/hemo/hemo/internal/domain/identity"
	"github.com/hemo/hemo/internal/domain/registration"
	"github.com/hemo/hemo/internal/domain/staff"
	"github.com/hemo/hemo/internal/platform/auth"
	"github.com/hemo/hemo/internal/platform/db"
	"github.com/hemo/hemo/pkg/pagination"
)

// Audit-log note strings, kept verbatim from the clinical workflow.
const (
	noteCheckStarted = "Kiểm tra sức khỏe"
	noteEligible     = "Đã đủ điều kiện hiến máu"
	noteDeferred     = "Không đủ điều kiện hiến máu"
)

var (
	// ErrNotFound doubles as the scope-mismatch rejection: callers cannot
	// tell a record they may not see from one that does not exist.
	ErrNotFound             = errors.New("health check not found or no permission")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrDoctorNotFound       = errors.New("doctor not found or not a doctor at this facility")
	ErrNotCheckedIn         = errors.New("registration is not in CHECKED_IN status")
	ErrNotAssigned          = errors.New("you are not the doctor assigned to this health check")
	ErrDeferralRequired     = errors.New("deferral reason is required when not eligible")
	ErrInvalidSort          = errors.New("invalid sort field")
)

// Notifier delivers a status-change notification to the donor. Delivery is
// best-effort: the workflow never fails because a notification could not be
// sent.
type Notifier interface {
	SendStatusChange(ctx context.Context, userID, newStatus, facilityName, registrationID string) error
}

type Service struct {
	checks   Repository
	regs     registration.Repository
	staff    staff.Repository
	users    identity.Repository
	logs     donationlog.Recorder
	tx       db.TxRunner
	notifier Notifier
	logger   zerolog.Logger
}

func NewService(
	checks Repository,
	regs registration.Repository,
	staffRepo staff.Repository,
	users identity.Repository,
	logs donationlog.Recorder,
	tx db.TxRunner,
	notifier Notifier,
	logger zerolog.Logger,
) *Service {
	return &Service{
		checks:   checks,
		regs:     regs,
		staff:    staffRepo,
		users:    users,
		logs:     logs,
		tx:       tx,
		notifier: notifier,
		logger:   logger,
	}
}

// Create opens a health check against a checked-in registration. The acting
// nurse comes from the position guard. Validations run in a fixed order so
// each failure mode surfaces as its own rejection; the registration update,
// health-check insert, and audit entry commit in one transaction.
func (s *Service) Create(ctx context.Context, nurse *staff.Staff, in CreateInput) (*View, error) {
	if in.RegistrationID == uuid.Nil || in.UserID == uuid.Nil || in.DoctorID == uuid.Nil {
		return nil, fmt.Errorf("registration_id, user_id and doctor_id are required")
	}

	reg, err := s.regs.GetByID(ctx, in.RegistrationID)
	if err != nil {
		return nil, ErrRegistrationNotFound
	}
	if _, err := s.users.GetByID(ctx, in.UserID); err != nil {
		return nil, ErrUserNotFound
	}
	doctor, err := s.staff.GetActive(ctx, in.DoctorID, nurse.FacilityID)
	if err != nil || doctor.Position != staff.PositionDoctor {
		return nil, ErrDoctorNotFound
	}
	if !registration.CanTransition(reg.Status, registration.StatusInConsult) {
		return nil, ErrNotCheckedIn
	}

	now := time.Now().UTC()
	checkDate := now
	if in.CheckDate != nil {
		checkDate = *in.CheckDate
	}

	hc := &HealthCheck{
		RegistrationID:   reg.ID,
		UserID:           in.UserID,
		StaffID:          nurse.ID,
		DoctorID:         doctor.ID,
		FacilityID:       nurse.FacilityID,
		CheckDate:        checkDate,
		BloodPressure:    in.BloodPressure,
		Hemoglobin:       in.Hemoglobin,
		Weight:           in.Weight,
		Pulse:            in.Pulse,
		Temperature:      in.Temperature,
		GeneralCondition: in.GeneralCondition,
		Notes:            in.Notes,
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.regs.UpdateStatus(ctx, reg.ID, registration.StatusInConsult, &now); err != nil {
			return fmt.Errorf("update registration status: %w", err)
		}
		if err := s.checks.Create(ctx, hc); err != nil {
			return fmt.Errorf("create health check: %w", err)
		}
		return s.logs.Record(ctx, &donationlog.Entry{
			RegistrationID: reg.ID,
			UserID:         in.UserID,
			ChangedBy:      nurse.UserID,
			Status:         string(registration.StatusInConsult),
			Notes:          noteCheckStarted,
		})
	})
	if err != nil {
		return nil, err
	}

	view, err := s.checks.GetView(ctx, hc.ID)
	if err != nil {
		return nil, fmt.Errorf("load created health check: %w", err)
	}
	s.notify(ctx, view, registration.StatusInConsult)
	return view, nil
}

// Update records the assigned doctor's findings. Present fields replace
// stored ones; the merged eligibility decision drives the registration
// transition. Every successful update re-applies the transition and appends a
// fresh audit entry, including repeated saves of the same decision.
func (s *Service) Update(ctx context.Context, doctor *staff.Staff, id uuid.UUID, in UpdateInput) (*View, error) {
	hc, err := s.checks.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if hc.DoctorID != doctor.ID {
		return nil, ErrNotAssigned
	}

	hc.merge(in)

	eligible := hc.IsEligible != nil && *hc.IsEligible
	if hc.IsEligible != nil && !*hc.IsEligible {
		if hc.DeferralReason == nil || *hc.DeferralReason == "" {
			return nil, ErrDeferralRequired
		}
	}

	newStatus := registration.StatusRegistered
	note := noteDeferred
	if eligible {
		hc.DeferralReason = nil
		newStatus = registration.StatusWaitingDonation
		note = noteEligible
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.regs.UpdateStatus(ctx, hc.RegistrationID, newStatus, nil); err != nil {
			return fmt.Errorf("update registration status: %w", err)
		}
		if err := s.checks.Update(ctx, hc); err != nil {
			return fmt.Errorf("update health check: %w", err)
		}
		return s.logs.Record(ctx, &donationlog.Entry{
			RegistrationID: hc.RegistrationID,
			UserID:         hc.UserID,
			ChangedBy:      doctor.UserID,
			Status:         string(newStatus),
			Notes:          note,
		})
	})
	if err != nil {
		return nil, err
	}

	view, err := s.checks.GetView(ctx, hc.ID)
	if err != nil {
		return nil, fmt.Errorf("load updated health check: %w", err)
	}
	s.notify(ctx, view, newStatus)
	return view, nil
}

// ListOptions are the caller-controlled listing knobs shared by all four
// scopes.
type ListOptions struct {
	// Eligible filters on the eligibility decision when non-nil.
	Eligible *bool
	// SortBy is one of createdAt, updatedAt, checkDate. Empty means createdAt.
	SortBy string
	Search string
	Page   pagination.Params
}

func (o ListOptions) sortColumn() (string, error) {
	if o.SortBy == "" {
		return "", nil
	}
	col, ok := sortFields[o.SortBy]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidSort, o.SortBy)
	}
	return col, nil
}

func (s *Service) list(ctx context.Context, filter ListFilter, opts ListOptions) ([]*View, int, error) {
	col, err := opts.sortColumn()
	if err != nil {
		return nil, 0, err
	}
	filter.IsEligible = opts.Eligible
	filter.Search = opts.Search
	filter.SortColumn = col
	return s.checks.List(ctx, filter, opts.Page)
}

// ListByFacility lists every health check in one facility.
func (s *Service) ListByFacility(ctx context.Context, facilityID uuid.UUID, opts ListOptions) ([]*View, int, error) {
	return s.list(ctx, ListFilter{FacilityID: &facilityID}, opts)
}

// ListByDoctor lists the checks assigned to one doctor within their facility.
func (s *Service) ListByDoctor(ctx context.Context, doctor *staff.Staff, opts ListOptions) ([]*View, int, error) {
	return s.list(ctx, ListFilter{DoctorID: &doctor.ID, FacilityID: &doctor.FacilityID}, opts)
}

// ListByNurse lists the checks opened by one nurse within their facility.
func (s *Service) ListByNurse(ctx context.Context, nurse *staff.Staff, opts ListOptions) ([]*View, int, error) {
	return s.list(ctx, ListFilter{StaffID: &nurse.ID, FacilityID: &nurse.FacilityID}, opts)
}

// ListByUser lists a donor's own health checks.
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]*View, int, error) {
	return s.list(ctx, ListFilter{UserID: &userID}, opts)
}

// Get fetches one health check with role-based scoping: a member sees only
// their own record, a doctor only records assigned to them in their facility,
// every other role sees all. A scope miss is indistinguishable from a missing
// record.
func (s *Service) Get(ctx context.Context, caller auth.Identity, id uuid.UUID) (*View, error) {
	view, err := s.checks.GetView(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}

	switch caller.Role {
	case auth.RoleMember:
		if view.UserID.String() != caller.UserID {
			return nil, ErrNotFound
		}
	case auth.RoleDoctor:
		if view.DoctorID.String() != caller.StaffID || view.FacilityID.String() != caller.FacilityID {
			return nil, ErrNotFound
		}
	}
	return view, nil
}

func (s *Service) notify(ctx context.Context, view *View, status registration.Status) {
	err := s.notifier.SendStatusChange(ctx, view.UserID.String(), string(status),
		view.FacilityName, view.RegistrationID.String())
	if err != nil {
		s.logger.Warn().Err(err).
			Str("registration_id", view.RegistrationID.String()).
			Str("status", string(status)).
			Msg("status-change notification failed")
	}
}
