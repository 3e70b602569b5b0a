package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/OscarGAV/eventrely-backend/internal/errs"
	"github.com/OscarGAV/eventrely-backend/internal/model"
	"github.com/OscarGAV/eventrely-backend/internal/repository"
)

// UserQueryService runs the identity read path.
type UserQueryService struct {
	users UserStore
}

func NewUserQueryService(users UserStore) *UserQueryService {
	return &UserQueryService{users: users}
}

// GetUserByID returns a public profile read.
func (s *UserQueryService) GetUserByID(ctx context.Context, id uint64) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errs.NotFound("User not found")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}

// GetUserByUsername looks a user up by username, case-insensitively.
func (s *UserQueryService) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.lookup(s.users.GetByUsername(ctx, model.NormalizeIdentifier(username)))
}

// GetUserByEmail looks a user up by email, case-insensitively.
func (s *UserQueryService) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.lookup(s.users.GetByEmail(ctx, model.NormalizeIdentifier(email)))
}

func (s *UserQueryService) lookup(u *model.User, err error) (*model.User, error) {
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errs.NotFound("User not found")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}

// ListUsers returns every account. Admin only.
func (s *UserQueryService) ListUsers(ctx context.Context, actor *model.User) ([]*model.User, error) {
	if err := requireUserManager(actor); err != nil {
		return nil, err
	}
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
