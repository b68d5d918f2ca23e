// Package identity holds user accounts and the login/refresh flow that mints
// token pairs.
package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/hemo/hemo/internal/platform/auth"
)

// User maps to the users table. PasswordHash is bcrypt and never serialized.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	FullName     string    `db:"full_name" json:"full_name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         auth.Role `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
