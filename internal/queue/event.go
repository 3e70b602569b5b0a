// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

import (
	"strconv"
	"time"

	"github.com/OscarGAV/eventrely-backend/internal/model"
)

// ReminderQueue is the durable queue reminder events are published to.
const ReminderQueue = "reminder.events"

// Message types.
const (
	TypeCreated   = "event.created"
	TypeUpdated   = "event.updated"
	TypeDeleted   = "event.deleted"
	TypeCompleted = "event.completed"
	TypeCancelled = "event.cancelled"
	TypeExpired   = "event.expired"
)

// ReminderEvent is published after a reminder change has been persisted.
// Consumers get enough to log or notify without querying the database.
type ReminderEvent struct {
	Type          string   `json:"type"`
	EventID       uint64   `json:"event_id"`
	UserID        string   `json:"user_id"`
	Title         string   `json:"title,omitempty"`
	EventDate     string   `json:"event_date,omitempty"`
	Status        string   `json:"status,omitempty"`
	UpdatedFields []string `json:"updated_fields,omitempty"`
	OccurredAt    string   `json:"occurred_at"`
}

func fromEvent(typ string, e *model.Event, now time.Time) ReminderEvent {
	return ReminderEvent{
		Type:       typ,
		EventID:    e.ID,
		UserID:     e.UserID,
		Title:      e.Title,
		EventDate:  e.EventDate.UTC().Format(time.RFC3339),
		Status:     string(e.Status),
		OccurredAt: now.UTC().Format(time.RFC3339),
	}
}

func Created(e *model.Event, now time.Time) ReminderEvent   { return fromEvent(TypeCreated, e, now) }
func Completed(e *model.Event, now time.Time) ReminderEvent { return fromEvent(TypeCompleted, e, now) }
func Cancelled(e *model.Event, now time.Time) ReminderEvent { return fromEvent(TypeCancelled, e, now) }
func Expired(e *model.Event, now time.Time) ReminderEvent   { return fromEvent(TypeExpired, e, now) }

// Updated lists the fields the command touched.
func Updated(e *model.Event, fields []string, now time.Time) ReminderEvent {
	ev := fromEvent(TypeUpdated, e, now)
	ev.UpdatedFields = fields
	return ev
}

// Deleted carries only identifiers; the row is already gone.
func Deleted(e *model.Event, now time.Time) ReminderEvent {
	return ReminderEvent{
		Type:       TypeDeleted,
		EventID:    e.ID,
		UserID:     e.UserID,
		OccurredAt: now.UTC().Format(time.RFC3339),
	}
}

// Key identifies the event for log lines.
func (ev ReminderEvent) Key() string { return ev.Type + "#" + strconv.FormatUint(ev.EventID, 10) }
