// Package middleware provides shared request processing for the HTTP API.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/OscarGAV/eventrely-backend/internal/model"
	"github.com/OscarGAV/eventrely-backend/internal/repository"
	"github.com/OscarGAV/eventrely-backend/internal/utils"
)

// Context keys set by JWTAuth.
const (
	ctxUser   = "user"
	ctxUserID = "user_id"
)

// TokenVerifier validates bearer tokens. Implemented by utils.TokenService.
type TokenVerifier interface {
	Verify(raw string) (*utils.TokenClaims, error)
}

// UserLoader fetches the current state of a token subject.
type UserLoader interface {
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// JWTAuth validates a Bearer access token and re-loads its subject. Tokens
// are never revoked, so a deactivated or deleted account is rejected here on
// every request rather than trusted until expiry.
func JWTAuth(tokens TokenVerifier, users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			claims, err := tokens.Verify(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}
			if claims.Type != utils.TokenTypeAccess {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token type"})
			}
			id, err := claims.UserID()
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			u, err := users.GetByID(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrUserNotFound) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "user not found or inactive"})
				}
				return err
			}
			if !u.CanAuthenticate() {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "user not found or inactive"})
			}

			c.Set(ctxUser, u)
			c.Set(ctxUserID, strconv.FormatUint(u.ID, 10))
			return next(c)
		}
	}
}

// CurrentUser returns the user loaded by JWTAuth, or nil.
func CurrentUser(c echo.Context) *model.User {
	u, _ := c.Get(ctxUser).(*model.User)
	return u
}

// currentUserID returns the authenticated id for keying, or "anon".
func currentUserID(c echo.Context) string {
	if s, ok := c.Get(ctxUserID).(string); ok && s != "" {
		return s
	}
	return "anon"
}
