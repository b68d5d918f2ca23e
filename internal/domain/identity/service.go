package identity

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/hemo/hemo/internal/domain/staff"
	"github.com/hemo/hemo/internal/platform/auth"
	"github.com/hemo/hemo/internal/platform/token"
)

// ErrInvalidCredentials covers unknown email and wrong password alike, so
// login failures do not reveal which accounts exist.
var ErrInvalidCredentials = errors.New("invalid email or password")

type Service struct {
	users  Repository
	staff  staff.Repository
	tokens *token.Service
}

func NewService(users Repository, staffRepo staff.Repository, tokens *token.Service) *Service {
	return &Service{users: users, staff: staffRepo, tokens: tokens}
}

// Login verifies the credentials and mints a token pair. Staff accounts get
// staffId/facilityId claims embedded at login; these claims are the only way
// a request passes the staff-position guard.
func (s *Service) Login(ctx context.Context, email, password string) (token.Pair, *User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return token.Pair{}, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return token.Pair{}, nil, ErrInvalidCredentials
	}

	claims := token.Claims{
		UserID: u.ID.String(),
		Email:  u.Email,
		Role:   string(u.Role),
	}
	if st, err := s.staff.GetByUserID(ctx, u.ID); err == nil && st != nil {
		claims.StaffID = st.ID.String()
		claims.FacilityID = st.FacilityID.String()
	}

	pair, err := s.tokens.CreatePair(claims)
	if err != nil {
		return token.Pair{}, nil, fmt.Errorf("mint token pair: %w", err)
	}
	return pair, u, nil
}

// Refresh verifies a refresh token and mints a new pair from its reduced
// claims {userId, email, role}. Staff claims are dropped: a refreshed session
// must log in again before passing staff-gated endpoints.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (token.Pair, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return token.Pair{}, err
	}

	pair, err := s.tokens.CreatePair(token.Claims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	})
	if err != nil {
		return token.Pair{}, fmt.Errorf("mint token pair: %w", err)
	}
	return pair, nil
}

// Register creates a member account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, u *User, password string) error {
	if u.Email == "" || u.FullName == "" {
		return fmt.Errorf("email and full_name are required")
	}
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	if u.Role == "" {
		u.Role = auth.RoleMember
	}
	return s.users.Create(ctx, u)
}
