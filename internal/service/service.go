// Package service holds the command and query services of the identity and
// reminder contexts. Services own authorization: every entry point checks
// the acting user's capabilities before touching a store.
package service

import (
	"context"
	"strconv"
	"time"

	"github.com/OscarGAV/eventrely-backend/internal/errs"
	"github.com/OscarGAV/eventrely-backend/internal/model"
	"github.com/OscarGAV/eventrely-backend/internal/queue"
	"github.com/OscarGAV/eventrely-backend/internal/utils"
)

// UserStore is the credential store. Implemented by repository.UserRepo.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	Update(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsernameOrEmail(ctx context.Context, ident string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListAll(ctx context.Context) ([]*model.User, error)
}

// EventStore persists reminder events. Implemented by repository.EventRepo.
type EventStore interface {
	Create(ctx context.Context, e *model.Event) error
	Update(ctx context.Context, e *model.Event) error
	Delete(ctx context.Context, id uint64) error
	GetByID(ctx context.Context, id uint64) (*model.Event, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Event, error)
	ListAll(ctx context.Context) ([]*model.Event, error)
	ListByUserAndDate(ctx context.Context, userID string, from, to time.Time) ([]*model.Event, error)
	ListByDate(ctx context.Context, from, to time.Time) ([]*model.Event, error)
	ListUpcoming(ctx context.Context, userID string, from time.Time, limit int) ([]*model.Event, error)
	ListAllUpcoming(ctx context.Context, from time.Time, limit int) ([]*model.Event, error)
	ListOverdue(ctx context.Context, now time.Time, limit int) ([]*model.Event, error)
}

// Tokens issues and validates bearer tokens. Implemented by utils.TokenService.
type Tokens interface {
	IssueAccess(userID uint64, username, email, role string) (utils.AccessToken, error)
	IssueRefresh(userID uint64) (utils.RefreshToken, error)
	Verify(raw string) (*utils.TokenClaims, error)
}

// Publisher delivers reminder events to the broker.
type Publisher interface {
	Publish(ctx context.Context, ev queue.ReminderEvent) error
}

// NopPublisher drops every event. Used when the broker is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.ReminderEvent) error { return nil }

// Clock returns the current time. Services default to UTC wall time.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

// requireActive is the capability check every authenticated entry point runs.
func requireActive(actor *model.User) error {
	if actor == nil {
		return errs.Auth("Not authenticated")
	}
	if !actor.CanAuthenticate() {
		return errs.Auth("Account is deactivated")
	}
	return nil
}

func requireUserManager(actor *model.User) error {
	if err := requireActive(actor); err != nil {
		return err
	}
	if !actor.CanManageUsers() {
		return errs.Forbidden("Admin role required")
	}
	return nil
}

// OwnerID renders a user id the way events store it.
func OwnerID(u *model.User) string { return strconv.FormatUint(u.ID, 10) }

// authorizeEvent allows the owner and users who may view all events.
func authorizeEvent(actor *model.User, e *model.Event) error {
	if e.OwnedBy(OwnerID(actor)) || actor.CanViewAllEvents() {
		return nil
	}
	return errs.Forbidden("You do not have access to this event")
}
