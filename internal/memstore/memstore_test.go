package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/OscarGAV/eventrely-backend/internal/model"
	"github.com/OscarGAV/eventrely-backend/internal/repository"
)

var t0 = time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

func TestUsers_Contract(t *testing.T) {
	ctx := context.Background()
	m := NewUsers()

	alice := model.NewUser("alice", "alice@x.com", "h", model.RoleGeneral, nil, t0)
	require.NoError(t, m.Create(ctx, alice))
	require.Equal(t, uint64(1), alice.ID)
	bob := model.NewUser("bob", "bob@x.com", "h", model.RoleGeneral, nil, t0)
	require.NoError(t, m.Create(ctx, bob))

	require.ErrorIs(t, m.Create(ctx, model.NewUser("ALICE", "other@x.com", "h", model.RoleGeneral, nil, t0)), repository.ErrConflict)

	got, err := m.GetByUsernameOrEmail(ctx, " Alice@X.com ")
	require.NoError(t, err)
	require.Equal(t, alice.ID, got.ID)

	got.Email = "mutated@x.com"
	again, err := m.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, "alice@x.com", again.Email)

	again.Email = "bob@x.com"
	require.ErrorIs(t, m.Update(ctx, again), repository.ErrConflict)

	ok, err := m.ExistsByEmail(ctx, "BOB@x.com")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = m.ExistsByUsername(ctx, "carol")
	require.NoError(t, err)
	require.False(t, ok)

	all, err := m.ListAll(ctx)
	require.NoError(t, err)
	require.Equal(t, []uint64{bob.ID, alice.ID}, []uint64{all[0].ID, all[1].ID})

	m.Remove(bob.ID)
	_, err = m.GetByID(ctx, bob.ID)
	require.ErrorIs(t, err, repository.ErrUserNotFound)
	require.ErrorIs(t, m.Update(ctx, bob), repository.ErrUserNotFound)

	boom := errors.New("boom")
	m.GetErr = boom
	_, err = m.GetByUsername(ctx, "alice")
	require.ErrorIs(t, err, boom)
}

func TestEvents_Contract(t *testing.T) {
	ctx := context.Background()
	m := NewEvents()

	add := func(user string, in time.Duration) *model.Event {
		e := &model.Event{UserID: user, Title: "t", EventDate: t0.Add(in), Status: model.StatusPending}
		require.NoError(t, m.Create(ctx, e))
		return e
	}
	late := add("1", 3*time.Hour)
	early := add("1", time.Hour)
	past := add("1", -time.Hour)
	add("2", 2*time.Hour)

	up, err := m.ListUpcoming(ctx, "1", t0, 10)
	require.NoError(t, err)
	require.Len(t, up, 2)
	require.Equal(t, early.ID, up[0].ID)
	require.Equal(t, late.ID, up[1].ID)

	up, err = m.ListAllUpcoming(ctx, t0, 2)
	require.NoError(t, err)
	require.Len(t, up, 2)

	mine, err := m.ListByUser(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, late.ID, mine[0].ID)

	day, err := m.ListByDate(ctx, t0, t0.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, day, 1)

	overdue, err := m.ListOverdue(ctx, t0, 0)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	require.Equal(t, past.ID, overdue[0].ID)

	require.NoError(t, m.Delete(ctx, past.ID))
	require.ErrorIs(t, m.Delete(ctx, past.ID), repository.ErrEventNotFound)
	_, err = m.GetByID(ctx, past.ID)
	require.ErrorIs(t, err, repository.ErrEventNotFound)
	require.ErrorIs(t, m.Update(ctx, past), repository.ErrEventNotFound)

	boom := errors.New("boom")
	m.UpdateErr = boom
	require.ErrorIs(t, m.Update(ctx, early), boom)
}
