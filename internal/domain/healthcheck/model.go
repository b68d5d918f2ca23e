// Package healthcheck implements the clinical screening step of the donation
// workflow: a nurse opens a health check against a checked-in registration,
// the assigned doctor records vitals and an eligibility decision, and the
// registration moves to WAITING_DONATION or back to REGISTERED accordingly.
package healthcheck

import (
	"time"

	"github.com/google/uuid"
)

// HealthCheck maps to the health_checks table. IsEligible is tri-state:
// nil until the doctor records a decision. Clinical fields are pointers so a
// partial update can tell "absent" from a zero-valued vital.
type HealthCheck struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	RegistrationID   uuid.UUID  `db:"registration_id" json:"registration_id"`
	UserID           uuid.UUID  `db:"user_id" json:"user_id"`
	StaffID          uuid.UUID  `db:"staff_id" json:"staff_id"`
	DoctorID         uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	FacilityID       uuid.UUID  `db:"facility_id" json:"facility_id"`
	CheckDate        time.Time  `db:"check_date" json:"check_date"`
	IsEligible       *bool      `db:"is_eligible" json:"is_eligible,omitempty"`
	BloodPressure    *string    `db:"blood_pressure" json:"blood_pressure,omitempty"`
	Hemoglobin       *float64   `db:"hemoglobin" json:"hemoglobin,omitempty"`
	Weight           *float64   `db:"weight" json:"weight,omitempty"`
	Pulse            *int       `db:"pulse" json:"pulse,omitempty"`
	Temperature      *float64   `db:"temperature" json:"temperature,omitempty"`
	GeneralCondition *string    `db:"general_condition" json:"general_condition,omitempty"`
	DeferralReason   *string    `db:"deferral_reason" json:"deferral_reason,omitempty"`
	Notes            *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// View is the projected record returned to clients: the health check plus
// cross-referenced user, staff, and facility fields.
type View struct {
	HealthCheck
	UserFullName    string `json:"user_full_name"`
	UserEmail       string `json:"user_email"`
	StaffPosition   string `json:"staff_position"`
	DoctorPosition  string `json:"doctor_position"`
	FacilityName    string `json:"facility_name"`
	FacilityAddress string `json:"facility_address"`
}

// CreateInput is what a nurse submits when opening a health check.
type CreateInput struct {
	RegistrationID   uuid.UUID
	UserID           uuid.UUID
	DoctorID         uuid.UUID
	CheckDate        *time.Time
	BloodPressure    *string
	Hemoglobin       *float64
	Weight           *float64
	Pulse            *int
	Temperature      *float64
	GeneralCondition *string
	Notes            *string
}

// UpdateInput carries the doctor's partial update. Nil means "keep the
// existing value"; false and 0 are real values.
type UpdateInput struct {
	CheckDate        *time.Time
	IsEligible       *bool
	BloodPressure    *string
	Hemoglobin       *float64
	Weight           *float64
	Pulse            *int
	Temperature      *float64
	GeneralCondition *string
	DeferralReason   *string
	Notes            *string
}

// merge applies present fields onto the health check.
func (hc *HealthCheck) merge(in UpdateInput) {
	if in.CheckDate != nil {
		hc.CheckDate = *in.CheckDate
	}
	if in.IsEligible != nil {
		hc.IsEligible = in.IsEligible
	}
	if in.BloodPressure != nil {
		hc.BloodPressure = in.BloodPressure
	}
	if in.Hemoglobin != nil {
		hc.Hemoglobin = in.Hemoglobin
	}
	if in.Weight != nil {
		hc.Weight = in.Weight
	}
	if in.Pulse != nil {
		hc.Pulse = in.Pulse
	}
	if in.Temperature != nil {
		hc.Temperature = in.Temperature
	}
	if in.GeneralCondition != nil {
		hc.GeneralCondition = in.GeneralCondition
	}
	if in.DeferralReason != nil {
		hc.DeferralReason = in.DeferralReason
	}
	if in.Notes != nil {
		hc.Notes = in.Notes
	}
}
