package staff

import (
	"time"

	"github.com/google/uuid"
)

// Position is the fine-grained facility assignment, distinct from the coarse
// token role. It is a closed set: guards take Position values, not strings.
type Position string

const (
	PositionNurse   Position = "NURSE"
	PositionDoctor  Position = "DOCTOR"
	PositionManager Position = "MANAGER"
)

// Valid reports whether p is one of the known positions.
func (p Position) Valid() bool {
	switch p {
	case PositionNurse, PositionDoctor, PositionManager:
		return true
	}
	return false
}

func (p Position) String() string { return string(p) }

// Staff maps to the facility_staff table. A staff record is scoped to exactly
// one facility; soft-deleted records are invisible to all queries.
type Staff struct {
	ID         uuid.UUID `db:"id" json:"id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	FacilityID uuid.UUID `db:"facility_id" json:"facility_id"`
	Position   Position  `db:"position" json:"position"`
	IsDeleted  bool      `db:"is_deleted" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
