package model

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/OscarGAV/eventrely-backend/internal/errs"
)

// TitleMaxLen bounds the event title in characters.
const TitleMaxLen = 200

// Status of a reminder event.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// Event is a reminder owned by one user. Only pending events move; the
// other three states are terminal.
type Event struct {
	ID          uint64
	UserID      string
	Title       string
	Description *string
	EventDate   time.Time
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewEvent builds a pending event. The date is stored in UTC and may not lie
// before now.
func NewEvent(userID, title string, description *string, eventDate, now time.Time) (*Event, error) {
	title, err := validTitle(title)
	if err != nil {
		return nil, err
	}
	now = now.UTC()
	eventDate = eventDate.UTC()
	if eventDate.Before(now) {
		return nil, errs.Validation("Event date cannot be in the past")
	}
	return &Event{
		UserID:      userID,
		Title:       title,
		Description: description,
		EventDate:   eventDate,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func validTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", errs.Validation("Title cannot be empty")
	}
	if utf8.RuneCountInString(t) > TitleMaxLen {
		return "", errs.Validation("Title cannot exceed %d characters", TitleMaxLen)
	}
	return t, nil
}

func (e *Event) IsPending() bool { return e.Status == StatusPending }

// Complete moves a pending event to completed.
func (e *Event) Complete(now time.Time) error {
	if !e.IsPending() {
		return errs.Domain("Cannot complete event with status %s", e.Status)
	}
	e.Status = StatusCompleted
	e.UpdatedAt = now.UTC()
	return nil
}

// Cancel moves a pending event to cancelled.
func (e *Event) Cancel(now time.Time) error {
	if !e.IsPending() {
		return errs.Domain("Cannot cancel event with status %s", e.Status)
	}
	e.Status = StatusCancelled
	e.UpdatedAt = now.UTC()
	return nil
}

// Reschedule sets a new date on a pending event. A date equal to now is
// accepted.
func (e *Event) Reschedule(date, now time.Time) error {
	if !e.IsPending() {
		return errs.Domain("Cannot reschedule event with status %s", e.Status)
	}
	now = now.UTC()
	date = date.UTC()
	if date.Before(now) {
		return errs.Validation("Event date cannot be in the past")
	}
	e.EventDate = date
	e.UpdatedAt = now
	return nil
}

// UpdateDetails replaces whichever of title and description is provided.
func (e *Event) UpdateDetails(title, description *string, now time.Time) error {
	if title != nil {
		t, err := validTitle(*title)
		if err != nil {
			return err
		}
		e.Title = t
	}
	if description != nil {
		d := *description
		e.Description = &d
	}
	e.UpdatedAt = now.UTC()
	return nil
}

// MarkExpired flips a pending event whose date has passed. It reports
// whether the status changed.
func (e *Event) MarkExpired(now time.Time) bool {
	now = now.UTC()
	if !e.IsPending() || !e.EventDate.Before(now) {
		return false
	}
	e.Status = StatusExpired
	e.UpdatedAt = now
	return true
}

// IsUpcoming is true for pending events dated now or later.
func (e *Event) IsUpcoming(now time.Time) bool {
	return e.IsPending() && !e.EventDate.Before(now.UTC())
}

// OwnedBy reports whether userID owns the event.
func (e *Event) OwnedBy(userID string) bool { return e.UserID == userID }
