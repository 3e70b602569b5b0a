package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/OscarGAV/eventrely-backend/internal/errs"
	"github.com/OscarGAV/eventrely-backend/internal/model"
	"github.com/OscarGAV/eventrely-backend/internal/repository"
)

// Upcoming list bounds.
const (
	DefaultUpcomingLimit = 50
	MaxUpcomingLimit     = 100
)

// EventQueryService runs the reminder read path. General users see their own
// events; users who may view all events see everyone's.
type EventQueryService struct {
	events EventStore
	now    Clock
}

func NewEventQueryService(events EventStore) *EventQueryService {
	return &EventQueryService{events: events, now: systemClock}
}

// WithClock replaces the time source.
func (s *EventQueryService) WithClock(now Clock) *EventQueryService {
	s.now = now
	return s
}

// GetEvent returns one event. Unknown ids are reported before ownership.
func (s *EventQueryService) GetEvent(ctx context.Context, actor *model.User, id uint64) (*model.Event, error) {
	if err := requireActive(actor); err != nil {
		return nil, err
	}
	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, errs.NotFound("Event with id %d not found", id)
		}
		return nil, fmt.Errorf("lookup event: %w", err)
	}
	if err := authorizeEvent(actor, e); err != nil {
		return nil, err
	}
	return e, nil
}

// ListEvents returns events ordered by event date, latest first.
func (s *EventQueryService) ListEvents(ctx context.Context, actor *model.User) ([]*model.Event, error) {
	if err := requireActive(actor); err != nil {
		return nil, err
	}
	if actor.CanViewAllEvents() {
		return s.events.ListAll(ctx)
	}
	return s.events.ListByUser(ctx, OwnerID(actor))
}

// ListByDate returns the events of one UTC calendar day.
func (s *EventQueryService) ListByDate(ctx context.Context, actor *model.User, day time.Time) ([]*model.Event, error) {
	if err := requireActive(actor); err != nil {
		return nil, err
	}
	d := day.UTC()
	from := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	if actor.CanViewAllEvents() {
		return s.events.ListByDate(ctx, from, to)
	}
	return s.events.ListByUserAndDate(ctx, OwnerID(actor), from, to)
}

// ListUpcoming returns pending events dated now or later, soonest first.
// Callers pick DefaultUpcomingLimit when the client gives no limit.
func (s *EventQueryService) ListUpcoming(ctx context.Context, actor *model.User, limit int) ([]*model.Event, error) {
	if err := requireActive(actor); err != nil {
		return nil, err
	}
	if limit < 1 || limit > MaxUpcomingLimit {
		return nil, errs.Validation("limit must be between 1 and %d", MaxUpcomingLimit)
	}
	now := s.now()
	if actor.CanViewAllEvents() {
		return s.events.ListAllUpcoming(ctx, now, limit)
	}
	return s.events.ListUpcoming(ctx, OwnerID(actor), now, limit)
}
