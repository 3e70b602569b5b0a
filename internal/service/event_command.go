package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/OscarGAV/eventrely-backend/internal/errs"
	"github.com/OscarGAV/eventrely-backend/internal/model"
	"github.com/OscarGAV/eventrely-backend/internal/queue"
	"github.com/OscarGAV/eventrely-backend/internal/repository"
)

// DefaultExpireBatch is the page size of the overdue sweep.
const DefaultExpireBatch = 100

// CreateEventInput is the create command.
type CreateEventInput struct {
	Title       string
	Description *string
	EventDate   time.Time
}

// UpdateEventInput is the update command. Nil fields are left alone.
type UpdateEventInput struct {
	Title       *string
	Description *string
	EventDate   *time.Time
}

// EventCommandService runs the reminder write path. Every successful change
// is published after it has been persisted; publish failures only log.
type EventCommandService struct {
	events    EventStore
	publisher Publisher
	log       *zap.Logger
	now       Clock
}

func NewEventCommandService(events EventStore, publisher Publisher, log *zap.Logger) *EventCommandService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &EventCommandService{events: events, publisher: publisher, log: log, now: systemClock}
}

// WithClock replaces the time source.
func (s *EventCommandService) WithClock(now Clock) *EventCommandService {
	s.now = now
	return s
}

func (s *EventCommandService) publish(ctx context.Context, ev queue.ReminderEvent) {
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Warn("publish reminder event failed", zap.String("event", ev.Key()), zap.Error(err))
	}
}

// CreateEvent stores a pending event owned by the actor.
func (s *EventCommandService) CreateEvent(ctx context.Context, actor *model.User, in CreateEventInput) (*model.Event, error) {
	if err := requireActive(actor); err != nil {
		return nil, err
	}
	now := s.now()
	e, err := model.NewEvent(OwnerID(actor), in.Title, in.Description, in.EventDate, now)
	if err != nil {
		return nil, err
	}
	if err := s.events.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	s.log.Info("event created", zap.Uint64("event_id", e.ID), zap.String("user_id", e.UserID))
	s.publish(ctx, queue.Created(e, now))
	return e, nil
}

// load fetches an event and checks the actor may act on it. Unknown ids are
// reported before ownership.
func (s *EventCommandService) load(ctx context.Context, actor *model.User, id uint64) (*model.Event, error) {
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

// UpdateEvent applies detail changes and a reschedule in one write.
func (s *EventCommandService) UpdateEvent(ctx context.Context, actor *model.User, id uint64, in UpdateEventInput) (*model.Event, error) {
	e, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	var fields []string
	if in.Title != nil || in.Description != nil {
		if err := e.UpdateDetails(in.Title, in.Description, now); err != nil {
			return nil, err
		}
		if in.Title != nil {
			fields = append(fields, "title")
		}
		if in.Description != nil {
			fields = append(fields, "description")
		}
	}
	if in.EventDate != nil {
		if err := e.Reschedule(*in.EventDate, now); err != nil {
			return nil, err
		}
		fields = append(fields, "event_date")
	}
	if len(fields) == 0 {
		return e, nil
	}
	if err := s.events.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("save event: %w", err)
	}
	s.publish(ctx, queue.Updated(e, fields, now))
	return e, nil
}

// DeleteEvent hard-deletes an event.
func (s *EventCommandService) DeleteEvent(ctx context.Context, actor *model.User, id uint64) error {
	e, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return errs.NotFound("Event with id %d not found", id)
		}
		return fmt.Errorf("delete event: %w", err)
	}
	s.log.Info("event deleted", zap.Uint64("event_id", id))
	s.publish(ctx, queue.Deleted(e, s.now()))
	return nil
}

// CompleteEvent moves a pending event to completed.
func (s *EventCommandService) CompleteEvent(ctx context.Context, actor *model.User, id uint64) (*model.Event, error) {
	return s.transition(ctx, actor, id, (*model.Event).Complete, queue.Completed)
}

// CancelEvent moves a pending event to cancelled.
func (s *EventCommandService) CancelEvent(ctx context.Context, actor *model.User, id uint64) (*model.Event, error) {
	return s.transition(ctx, actor, id, (*model.Event).Cancel, queue.Cancelled)
}

func (s *EventCommandService) transition(
	ctx context.Context,
	actor *model.User,
	id uint64,
	apply func(*model.Event, time.Time) error,
	message func(*model.Event, time.Time) queue.ReminderEvent,
) (*model.Event, error) {
	e, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := apply(e, now); err != nil {
		return nil, err
	}
	if err := s.events.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("save event: %w", err)
	}
	s.log.Info("event status changed", zap.Uint64("event_id", e.ID), zap.String("status", string(e.Status)))
	s.publish(ctx, message(e, now))
	return e, nil
}

// ExpireOverdue marks every pending event dated before now as expired and
// returns how many were changed. It is run by the maintenance command, not
// by request handlers.
func (s *EventCommandService) ExpireOverdue(ctx context.Context, batch int) (int, error) {
	if batch <= 0 {
		batch = DefaultExpireBatch
	}
	now := s.now()
	total := 0
	for {
		overdue, err := s.events.ListOverdue(ctx, now, batch)
		if err != nil {
			return total, fmt.Errorf("list overdue: %w", err)
		}
		for _, e := range overdue {
			if !e.MarkExpired(now) {
				continue
			}
			if err := s.events.Update(ctx, e); err != nil {
				return total, fmt.Errorf("expire event %d: %w", e.ID, err)
			}
			total++
			s.publish(ctx, queue.Expired(e, now))
		}
		if len(overdue) < batch {
			break
		}
	}
	s.log.Info("overdue events expired", zap.Int("count", total))
	return total, nil
}
