package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/OscarGAV/eventrely-backend/internal/model"
)

// eventRow mirrors the 'events' table. Times are stored as UTC DATETIME(6).
type eventRow struct {
	ID          uint64
	UserID      string
	Title       string
	Description sql.NullString
	EventDate   time.Time
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r eventRow) toModel() *model.Event {
	return &model.Event{
		ID:          r.ID,
		UserID:      r.UserID,
		Title:       r.Title,
		Description: stringPtr(r.Description),
		EventDate:   r.EventDate.UTC(),
		Status:      model.Status(r.Status),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

const eventColumns = "id,user_id,title,description,event_date,status,created_at,updated_at"

// EventRepo manages persistence for reminder events.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo constructs an EventRepo with the given DB handle.
func NewEventRepo(db *sql.DB) *EventRepo {
	return &EventRepo{db: db}
}

// Create inserts e and assigns the generated id back to it.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	const q = `INSERT INTO events (user_id, title, description, event_date, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, e.UserID, e.Title, nullString(e.Description), e.EventDate, string(e.Status), e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// Update overwrites the mutable columns of e. Last writer wins.
func (r *EventRepo) Update(ctx context.Context, e *model.Event) error {
	const q = `UPDATE events SET title = ?, description = ?, event_date = ?, status = ?, updated_at = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, e.Title, nullString(e.Description), e.EventDate, string(e.Status), e.UpdatedAt, e.ID); err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

// Delete removes the row. It returns ErrEventNotFound when nothing matched.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEventNotFound
	}
	return nil
}

// GetByID retrieves an event by id or ErrEventNotFound.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	var row eventRow
	err := r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id).
		Scan(&row.ID, &row.UserID, &row.Title, &row.Description, &row.EventDate, &row.Status, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return row.toModel(), nil
}

func (r *EventRepo) list(ctx context.Context, q string, args ...any) ([]*model.Event, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Event, 0)
	for rows.Next() {
		var row eventRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.Title, &row.Description, &row.EventDate, &row.Status, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, row.toModel())
	}
	return out, rows.Err()
}

// ListByUser returns a user's events, latest event date first.
func (r *EventRepo) ListByUser(ctx context.Context, userID string) ([]*model.Event, error) {
	return r.list(ctx, `SELECT `+eventColumns+` FROM events WHERE user_id = ? ORDER BY event_date DESC, id DESC`, userID)
}

// ListAll returns every event, latest event date first.
func (r *EventRepo) ListAll(ctx context.Context) ([]*model.Event, error) {
	return r.list(ctx, `SELECT `+eventColumns+` FROM events ORDER BY event_date DESC, id DESC`)
}

// ListByUserAndDate returns a user's events inside [from, to), ascending.
func (r *EventRepo) ListByUserAndDate(ctx context.Context, userID string, from, to time.Time) ([]*model.Event, error) {
	return r.list(ctx,
		`SELECT `+eventColumns+` FROM events WHERE user_id = ? AND event_date >= ? AND event_date < ? ORDER BY event_date ASC, id ASC`,
		userID, from.UTC(), to.UTC())
}

// ListByDate returns all events inside [from, to), ascending.
func (r *EventRepo) ListByDate(ctx context.Context, from, to time.Time) ([]*model.Event, error) {
	return r.list(ctx,
		`SELECT `+eventColumns+` FROM events WHERE event_date >= ? AND event_date < ? ORDER BY event_date ASC, id ASC`,
		from.UTC(), to.UTC())
}

// ListUpcoming returns a user's pending events dated at or after from.
func (r *EventRepo) ListUpcoming(ctx context.Context, userID string, from time.Time, limit int) ([]*model.Event, error) {
	return r.list(ctx,
		`SELECT `+eventColumns+` FROM events WHERE user_id = ? AND status = ? AND event_date >= ? ORDER BY event_date ASC, id ASC LIMIT ?`,
		userID, string(model.StatusPending), from.UTC(), limit)
}

// ListAllUpcoming is ListUpcoming across all users.
func (r *EventRepo) ListAllUpcoming(ctx context.Context, from time.Time, limit int) ([]*model.Event, error) {
	return r.list(ctx,
		`SELECT `+eventColumns+` FROM events WHERE status = ? AND event_date >= ? ORDER BY event_date ASC, id ASC LIMIT ?`,
		string(model.StatusPending), from.UTC(), limit)
}

// ListOverdue returns pending events dated strictly before now.
func (r *EventRepo) ListOverdue(ctx context.Context, now time.Time, limit int) ([]*model.Event, error) {
	return r.list(ctx,
		`SELECT `+eventColumns+` FROM events WHERE status = ? AND event_date < ? ORDER BY event_date ASC, id ASC LIMIT ?`,
		string(model.StatusPending), now.UTC(), limit)
}
