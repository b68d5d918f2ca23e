package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hemo/hemo/internal/platform/token"
)

// Response headers carrying a freshly minted pair after a transparent refresh.
const (
	HeaderAccessToken  = "x-access-token"
	HeaderRefreshToken = "x-refresh-token"
)

// Authenticate returns middleware that resolves a verified identity from the
// Authorization header or rejects the request.
//
// An expired access token accompanied by a refresh token in the
// x-refresh-token request header triggers a transparent refresh: a new pair
// is minted from the refresh token's claims and returned via the
// x-access-token / x-refresh-token response headers. The refresh-derived
// identity carries only userID/email/role — staff-gated endpoints reject it
// until the client logs in again.
func Authenticate(tokens *token.Service, logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				return echo.NewHTTPError(http.StatusBadRequest,
					"no access token provided or invalid format")
			}
			accessToken := strings.TrimPrefix(authHeader, bearerPrefix)

			claims, err := tokens.VerifyAccess(accessToken)
			if err == nil {
				ctx := WithIdentity(c.Request().Context(), identityFromClaims(claims))
				c.SetRequest(c.Request().WithContext(ctx))
				return next(c)
			}

			refreshToken := c.Request().Header.Get(HeaderRefreshToken)
			if errors.Is(err, token.ErrExpired) && refreshToken != "" {
				id, pair, refreshErr := refresh(tokens, refreshToken)
				if refreshErr == nil {
					c.Response().Header().Set(HeaderAccessToken, pair.AccessToken)
					c.Response().Header().Set(HeaderRefreshToken, pair.RefreshToken)

					ctx := WithIdentity(c.Request().Context(), id)
					c.SetRequest(c.Request().WithContext(ctx))

					logger.Debug().
						Str("user_id", id.UserID).
						Msg("access token refreshed")
					return next(c)
				}
				logger.Warn().Err(refreshErr).Msg("refresh token rejected")
			}

			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired access token")
		}
	}
}

// refresh verifies the refresh token and mints a new pair over a reduced
// claim set: userID, email, and role only. Staff and facility claims are
// deliberately not re-derived here; they require a fresh login.
func refresh(tokens *token.Service, refreshToken string) (Identity, token.Pair, error) {
	claims, err := tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return Identity{}, token.Pair{}, err
	}

	reduced := token.Claims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}
	pair, err := tokens.CreatePair(reduced)
	if err != nil {
		return Identity{}, token.Pair{}, err
	}

	return identityFromClaims(&reduced), pair, nil
}
