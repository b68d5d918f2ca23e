package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestService(t *testing.T, accessTTL, refreshTTL time.Duration) *Service {
	t.Helper()
	svc, err := NewService("access-secret", "refresh-secret", accessTTL, refreshTTL)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func staffClaims() Claims {
	return Claims{
		UserID:     "8f14e45f-ceea-4e5b-b0d4-6f0e01b2a001",
		Email:      "nurse@facility.vn",
		Role:       "NURSE",
		StaffID:    "8f14e45f-ceea-4e5b-b0d4-6f0e01b2a002",
		FacilityID: "8f14e45f-ceea-4e5b-b0d4-6f0e01b2a003",
	}
}

func TestNewService_MissingSecret(t *testing.T) {
	if _, err := NewService("", "refresh", time.Minute, time.Hour); !errors.Is(err, ErrSigning) {
		t.Errorf("expected ErrSigning for missing access secret, got %v", err)
	}
	if _, err := NewService("access", "", time.Minute, time.Hour); !errors.Is(err, ErrSigning) {
		t.Errorf("expected ErrSigning for missing refresh secret, got %v", err)
	}
}

func TestCreatePair_RoundTrip(t *testing.T) {
	svc := newTestService(t, 15*time.Minute, 168*time.Hour)

	pair, err := svc.CreatePair(staffClaims())
	if err != nil {
		t.Fatalf("create pair: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens to be minted")
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Error("access and refresh tokens must differ")
	}

	got, err := svc.VerifyAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	want := staffClaims()
	if got.UserID != want.UserID || got.Email != want.Email || got.Role != want.Role {
		t.Errorf("access claims = %+v, want identity of %+v", got, want)
	}
	if got.StaffID != want.StaffID || got.FacilityID != want.FacilityID {
		t.Errorf("staff claims not carried: %+v", got)
	}

	refreshed, err := svc.VerifyRefresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("verify refresh: %v", err)
	}
	if refreshed.UserID != want.UserID {
		t.Errorf("refresh claims user = %s, want %s", refreshed.UserID, want.UserID)
	}
}

func TestVerify_CrossSecretRejected(t *testing.T) {
	svc := newTestService(t, 15*time.Minute, time.Hour)
	pair, err := svc.CreatePair(staffClaims())
	if err != nil {
		t.Fatalf("create pair: %v", err)
	}

	// An access token must not verify as a refresh token and vice versa.
	if _, err := svc.VerifyRefresh(pair.AccessToken); !errors.Is(err, ErrInvalid) {
		t.Errorf("access token against refresh secret: got %v, want ErrInvalid", err)
	}
	if _, err := svc.VerifyAccess(pair.RefreshToken); !errors.Is(err, ErrInvalid) {
		t.Errorf("refresh token against access secret: got %v, want ErrInvalid", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	svc := newTestService(t, -time.Minute, time.Hour)
	pair, err := svc.CreatePair(staffClaims())
	if err != nil {
		t.Fatalf("create pair: %v", err)
	}

	_, err = svc.VerifyAccess(pair.AccessToken)
	if !errors.Is(err, ErrExpired) {
		t.Errorf("expected ErrExpired, got %v", err)
	}
	// Expiry must be distinguishable from an invalid signature.
	if errors.Is(err, ErrInvalid) {
		t.Error("expired token must not also report ErrInvalid")
	}
}

func TestVerify_Malformed(t *testing.T) {
	svc := newTestService(t, time.Minute, time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"truncated", "eyJhbGciOiJIUzI1NiJ9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.VerifyAccess(tt.token); !errors.Is(err, ErrInvalid) {
				t.Errorf("got %v, want ErrInvalid", err)
			}
		})
	}
}

func TestVerify_RejectsNonHMAC(t *testing.T) {
	svc := newTestService(t, time.Minute, time.Hour)

	// alg=none tokens must never verify.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}

	if _, err := svc.VerifyAccess(unsigned); !errors.Is(err, ErrInvalid) {
		t.Errorf("alg=none token: got %v, want ErrInvalid", err)
	}
}
