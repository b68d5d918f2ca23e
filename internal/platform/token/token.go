// Package token issues and verifies the signed access/refresh token pair
// that authenticates every request. Tokens are HS256 only; validity is
// purely cryptographic plus expiry, there is no server-side revocation.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrSigning indicates a token could not be minted (missing/invalid secret).
	ErrSigning = errors.New("token signing failed")
	// ErrExpired indicates a structurally valid token past its expiry.
	// Callers branch on this to drive the transparent refresh flow.
	ErrExpired = errors.New("token expired")
	// ErrInvalid covers bad signatures, wrong signing methods, and
	// malformed tokens.
	ErrInvalid = errors.New("token invalid")
)

// Claims is the identity payload embedded in both tokens of a pair.
// StaffID and FacilityID are present only for facility staff, and only on
// tokens minted at login: the refresh flow intentionally drops them, so a
// silently refreshed identity cannot pass staff-position guards until the
// client re-authenticates.
type Claims struct {
	UserID     string `json:"userId"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	StaffID    string `json:"staffId,omitempty"`
	FacilityID string `json:"facilityId,omitempty"`
	jwt.RegisteredClaims
}

// Pair is an access/refresh token pair over the same identity claims, each
// signed with its own secret and carrying its own expiry.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Service mints and verifies token pairs. Secrets and lifetimes come from
// startup configuration; they are never read per request.
type Service struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*Service, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, fmt.Errorf("%w: secret not configured", ErrSigning)
	}
	return &Service{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

// CreatePair signs two independent tokens over the same claim payload.
func (s *Service) CreatePair(claims Claims) (Pair, error) {
	access, err := s.sign(claims, s.accessSecret, s.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := s.sign(claims, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) sign(claims Claims, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigning, err)
	}
	return signed, nil
}

// VerifyAccess verifies a token against the access secret.
func (s *Service) VerifyAccess(tokenStr string) (*Claims, error) {
	return verify(tokenStr, s.accessSecret)
}

// VerifyRefresh verifies a token against the refresh secret.
func (s *Service) VerifyRefresh(tokenStr string) (*Claims, error) {
	return verify(tokenStr, s.refreshSecret)
}

func verify(tokenStr string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalid
	}

	return claims, nil
}
