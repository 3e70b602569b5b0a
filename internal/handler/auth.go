package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/OscarGAV/eventrely-backend/internal/middleware"
	"github.com/OscarGAV/eventrely-backend/internal/service"
)

// requestTimeout bounds the store work of a single request.
const requestTimeout = 5 * time.Second

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Commands *service.AuthCommandService
	Queries  *service.UserQueryService
	Log      *zap.Logger
}

func NewAuthHandler(cmd *service.AuthCommandService, q *service.UserQueryService, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{Commands: cmd, Queries: q, Log: log}
}

func authRespOf(r *service.AuthResult) authResp {
	return authResp{
		User:         toUserResp(r.User),
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		TokenType:    tokenTypeBearer,
	}
}

// SignUp: create an active user and return a token pair.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return badRequest(c, "username, email and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	res, err := h.Commands.SignUp(ctx, service.SignUpInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		FullName: req.FullName,
	})
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, authRespOf(res))
}

// SignIn: authenticate by username or email.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.UsernameOrEmail == "" || req.Password == "" {
		return badRequest(c, "username_or_email and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	res, err := h.Commands.SignIn(ctx, req.UsernameOrEmail, req.Password)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, authRespOf(res))
}

// Refresh: mint a new access token from a refresh token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return badRequest(c, "refresh_token required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	token, err := h.Commands.RefreshAccessToken(ctx, req.RefreshToken)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, tokenResp{AccessToken: token, TokenType: tokenTypeBearer})
}

// ChangePassword requires the current password.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		return badRequest(c, "old_password and new_password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if err := h.Commands.ChangePassword(ctx, middleware.CurrentUser(c), req.OldPassword, req.NewPassword); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password changed successfully"})
}

// UpdateProfile applies a partial update of full name and email.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	u, err := h.Commands.UpdateProfile(ctx, middleware.CurrentUser(c), req.FullName, req.Email)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}

// Deactivate disables the caller's own account.
func (h *AuthHandler) Deactivate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if err := h.Commands.DeactivateUser(ctx, middleware.CurrentUser(c)); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Account deactivated successfully"})
}

// Me returns the authenticated caller.
func (h *AuthHandler) Me(c echo.Context) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authenticated"})
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}

// GetUser is a public profile read.
func (h *AuthHandler) GetUser(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid user id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	u, err := h.Queries.GetUserByID(ctx, id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}

// ListUsers is admin only.
func (h *AuthHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	users, err := h.Queries.ListUsers(ctx, middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	out := make([]userResp, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResp(u))
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out, "total": len(out)})
}

// ActivateUser re-enables an account. Admin only.
func (h *AuthHandler) ActivateUser(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid user id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	u, err := h.Commands.ActivateUser(ctx, middleware.CurrentUser(c), id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}
