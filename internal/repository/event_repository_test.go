package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/OscarGAV/eventrely-backend/internal/model"
)

var eventCols = []string{"id", "user_id", "title", "description", "event_date", "status", "created_at", "updated_at"}

func TestEventRepo_CreateAndGet(t *testing.T) {
	db, mock := newDB(t)
	r := NewEventRepo(db)
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	when := now.Add(24 * time.Hour)
	e, err := model.NewEvent("5", "Pay rent", nil, when, now)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO events (user_id, title, description, event_date, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`)).
		WithArgs("5", "Pay rent", nil, when, "pending", now, now).
		WillReturnResult(sqlmock.NewResult(9, 1))
	require.NoError(t, r.Create(ctx, e))
	require.Equal(t, uint64(9), e.ID)

	get := regexp.QuoteMeta(`SELECT ` + eventColumns + ` FROM events WHERE id = ?`)
	mock.ExpectQuery(get).WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows(eventCols).AddRow(9, "5", "Pay rent", "monthly", when, "pending", now, now))
	got, err := r.GetByID(ctx, 9)
	require.NoError(t, err)
	require.Equal(t, model.StatusPending, got.Status)
	require.Equal(t, "monthly", *got.Description)
	require.True(t, got.EventDate.Equal(when))

	mock.ExpectQuery(get).WithArgs(uint64(10)).WillReturnRows(sqlmock.NewRows(eventCols))
	_, err = r.GetByID(ctx, 10)
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestEventRepo_Delete(t *testing.T) {
	db, mock := newDB(t)
	r := NewEventRepo(db)
	q := regexp.QuoteMeta(`DELETE FROM events WHERE id = ?`)

	mock.ExpectExec(q).WithArgs(uint64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, r.Delete(context.Background(), 1))

	mock.ExpectExec(q).WithArgs(uint64(2)).WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, r.Delete(context.Background(), 2), ErrEventNotFound)
}

func TestEventRepo_Update(t *testing.T) {
	db, mock := newDB(t)
	r := NewEventRepo(db)
	now := time.Now().UTC()
	e := &model.Event{ID: 4, Title: "t", EventDate: now, Status: model.StatusCompleted, UpdatedAt: now}

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE events SET title = ?, description = ?, event_date = ?, status = ?, updated_at = ? WHERE id = ?`)).
		WithArgs("t", nil, now, "completed", now, uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, r.Update(context.Background(), e))
}

func TestEventRepo_ListUpcomingAndOverdue(t *testing.T) {
	db, mock := newDB(t)
	r := NewEventRepo(db)
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+eventColumns+` FROM events WHERE user_id = ? AND status = ? AND event_date >= ? ORDER BY event_date ASC, id ASC LIMIT ?`)).
		WithArgs("5", "pending", now, 50).
		WillReturnRows(sqlmock.NewRows(eventCols).
			AddRow(1, "5", "a", nil, now, "pending", now, now).
			AddRow(2, "5", "b", nil, now.Add(time.Hour), "pending", now, now))
	up, err := r.ListUpcoming(context.Background(), "5", now, 50)
	require.NoError(t, err)
	require.Len(t, up, 2)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+eventColumns+` FROM events WHERE status = ? AND event_date < ? ORDER BY event_date ASC, id ASC LIMIT ?`)).
		WithArgs("pending", now, 100).
		WillReturnRows(sqlmock.NewRows(eventCols))
	over, err := r.ListOverdue(context.Background(), now, 100)
	require.NoError(t, err)
	require.Empty(t, over)
}

func TestEventRepo_ListByUserAndDate(t *testing.T) {
	db, mock := newDB(t)
	r := NewEventRepo(db)
	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+eventColumns+` FROM events WHERE user_id = ? AND event_date >= ? AND event_date < ? ORDER BY event_date ASC, id ASC`)).
		WithArgs("5", from, to).
		WillReturnRows(sqlmock.NewRows(eventCols).AddRow(3, "5", "c", nil, from.Add(3*time.Hour), "cancelled", from, from))
	got, err := r.ListByUserAndDate(context.Background(), "5", from, to)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, model.StatusCancelled, got[0].Status)
}
