// Package registration holds the blood-donation registration record and its
// status workflow. The health-check service drives the CHECKED_IN → IN_CONSULT
// → {WAITING_DONATION | REGISTERED} transitions; the remaining statuses belong
// to adjacent flows (approval, donation, completion).
package registration

import (
	"time"

	"github.com/google/uuid"
)

// Status is a registration's position in the donation workflow.
type Status string

const (
	StatusPendingApproval Status = "PENDING_APPROVAL"
	StatusRegistered      Status = "REGISTERED"
	StatusCheckedIn       Status = "CHECKED_IN"
	StatusInConsult       Status = "IN_CONSULT"
	StatusWaitingDonation Status = "WAITING_DONATION"
	StatusDonated         Status = "DONATED"
	StatusCompleted       Status = "COMPLETED"
	StatusCancelled       Status = "CANCELLED"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPendingApproval, StatusRegistered, StatusCheckedIn, StatusInConsult,
		StatusWaitingDonation, StatusDonated, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// transitions enumerates the legal workflow moves. IN_CONSULT → REGISTERED is
// the deferral path: an ineligible donor returns to the start of the queue.
var transitions = map[Status][]Status{
	StatusPendingApproval: {StatusRegistered, StatusCancelled},
	StatusRegistered:      {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn:       {StatusInConsult, StatusCancelled},
	StatusInConsult:       {StatusWaitingDonation, StatusRegistered, StatusCancelled},
	StatusWaitingDonation: {StatusDonated, StatusCancelled},
	StatusDonated:         {StatusCompleted},
}

// CanTransition reports whether moving from one status to another is a legal
// workflow step.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Registration maps to the blood_donation_registrations table.
type Registration struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	UserID       uuid.UUID  `db:"user_id" json:"user_id"`
	FacilityID   uuid.UUID  `db:"facility_id" json:"facility_id"`
	Status       Status     `db:"status" json:"status"`
	BloodGroup   *string    `db:"blood_group" json:"blood_group,omitempty"`
	ExpectedDate *time.Time `db:"expected_date" json:"expected_date,omitempty"`
	CheckInAt    *time.Time `db:"check_in_at" json:"check_in_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}
