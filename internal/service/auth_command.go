package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/OscarGAV/eventrely-backend/internal/errs"
	"github.com/OscarGAV/eventrely-backend/internal/model"
	"github.com/OscarGAV/eventrely-backend/internal/repository"
	"github.com/OscarGAV/eventrely-backend/internal/utils"
)

// SignUpInput is the sign-up command.
type SignUpInput struct {
	Username string
	Email    string
	Password string
	Role     string
	FullName *string
}

// AuthResult is returned by sign-up and sign-in.
type AuthResult struct {
	User         *model.User
	AccessToken  string
	RefreshToken string
}

// AuthCommandService runs the identity write path.
type AuthCommandService struct {
	users  UserStore
	hasher model.PasswordHasher
	tokens Tokens
	log    *zap.Logger
	now    Clock
}

func NewAuthCommandService(users UserStore, hasher model.PasswordHasher, tokens Tokens, log *zap.Logger) *AuthCommandService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthCommandService{users: users, hasher: hasher, tokens: tokens, log: log, now: systemClock}
}

// WithClock replaces the time source.
func (s *AuthCommandService) WithClock(now Clock) *AuthCommandService {
	s.now = now
	return s
}

// SignUp registers an active user and returns a token pair.
func (s *AuthCommandService) SignUp(ctx context.Context, in SignUpInput) (*AuthResult, error) {
	username := model.NormalizeIdentifier(in.Username)
	email := model.NormalizeIdentifier(in.Email)

	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, errs.Conflict("Username already registered")
	}
	taken, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, errs.Conflict("Email already registered")
	}
	if err := model.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := model.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := model.ValidateFullName(in.FullName); err != nil {
		return nil, err
	}
	role, err := model.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	u := model.NewUser(username, email, hash, role, in.FullName, s.now())
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, errs.Conflict("Username or email already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	if role == model.RoleAdmin {
		s.log.Warn("self-registered admin account", zap.Uint64("user_id", u.ID), zap.String("username", u.Username))
	}
	s.log.Info("user signed up", zap.Uint64("user_id", u.ID), zap.String("role", role.String()))
	return s.issuePair(u)
}

// SignIn authenticates by username or email. A missing user and a wrong
// password produce the same error.
func (s *AuthCommandService) SignIn(ctx context.Context, ident, password string) (*AuthResult, error) {
	u, err := s.users.GetByUsernameOrEmail(ctx, ident)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errs.Auth("Invalid credentials")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		return nil, errs.Auth("Invalid credentials")
	}
	if !u.CanAuthenticate() {
		return nil, errs.Auth("Account is deactivated")
	}
	s.log.Info("user signed in", zap.Uint64("user_id", u.ID))
	return s.issuePair(u)
}

func (s *AuthCommandService) issuePair(u *model.User) (*AuthResult, error) {
	at, err := s.tokens.IssueAccess(u.ID, u.Username, u.Email, u.Role.String())
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	rt, err := s.tokens.IssueRefresh(u.ID)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	return &AuthResult{User: u, AccessToken: at.Token, RefreshToken: rt.Token}, nil
}

// RefreshAccessToken mints a new access token. The refresh token is not rotated.
func (s *AuthCommandService) RefreshAccessToken(ctx context.Context, raw string) (string, error) {
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		return "", errs.Auth("Invalid or expired refresh token")
	}
	if claims.Type != utils.TokenTypeRefresh {
		return "", errs.Auth("Invalid token type")
	}
	id, err := claims.UserID()
	if err != nil {
		return "", errs.Auth("Invalid or expired refresh token")
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", errs.Auth("User not found or inactive")
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if !u.CanAuthenticate() {
		return "", errs.Auth("User not found or inactive")
	}
	at, err := s.tokens.IssueAccess(u.ID, u.Username, u.Email, u.Role.String())
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return at.Token, nil
}

// reload fetches the actor's current record so stale token data is never written back.
func (s *AuthCommandService) reload(ctx context.Context, actor *model.User) (*model.User, error) {
	if err := requireActive(actor); err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errs.NotFound("User not found")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}

// ChangePassword verifies the current password before replacing it.
func (s *AuthCommandService) ChangePassword(ctx context.Context, actor *model.User, current, next string) error {
	u, err := s.reload(ctx, actor)
	if err != nil {
		return err
	}
	if err := u.ChangePassword(s.hasher, current, next, s.now()); err != nil {
		return err
	}
	if err := s.users.Update(ctx, u); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	s.log.Info("password changed", zap.Uint64("user_id", u.ID))
	return nil
}

// UpdateProfile applies a partial update. A new email must be unused.
func (s *AuthCommandService) UpdateProfile(ctx context.Context, actor *model.User, fullName, email *string) (*model.User, error) {
	u, err := s.reload(ctx, actor)
	if err != nil {
		return nil, err
	}
	if email != nil {
		e := model.NormalizeIdentifier(*email)
		if e != u.Email {
			taken, err := s.users.ExistsByEmail(ctx, e)
			if err != nil {
				return nil, fmt.Errorf("check email: %w", err)
			}
			if taken {
				return nil, errs.Conflict("Email already registered")
			}
		}
	}
	if err := u.UpdateProfile(fullName, email, s.now()); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, errs.Conflict("Email already registered")
		}
		return nil, fmt.Errorf("save user: %w", err)
	}
	return u, nil
}

// DeactivateUser deactivates the actor's own account.
func (s *AuthCommandService) DeactivateUser(ctx context.Context, actor *model.User) error {
	u, err := s.reload(ctx, actor)
	if err != nil {
		return err
	}
	if err := u.Deactivate(s.now()); err != nil {
		return err
	}
	if err := s.users.Update(ctx, u); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	s.log.Info("user deactivated", zap.Uint64("user_id", u.ID))
	return nil
}

// ActivateUser re-enables another account. Admin only.
func (s *AuthCommandService) ActivateUser(ctx context.Context, actor *model.User, id uint64) (*model.User, error) {
	if err := requireUserManager(actor); err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errs.NotFound("User not found")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if err := u.Activate(s.now()); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	s.log.Info("user activated", zap.Uint64("user_id", u.ID), zap.Uint64("by", actor.ID))
	return u, nil
}
