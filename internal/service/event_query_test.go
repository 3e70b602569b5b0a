package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/OscarGAV/eventrely-backend/internal/errs"
)

func TestGetEvent_NotFoundBeforeForbidden(t *testing.T) {
	env := newEventEnv()
	e := env.create(t, alice, "a", time.Hour)

	got, err := env.query.GetEvent(env.ctx, alice, e.ID)
	require.NoError(t, err)
	require.Equal(t, e.ID, got.ID)

	_, err = env.query.GetEvent(env.ctx, bob, e.ID)
	require.ErrorIs(t, err, errs.ErrForbidden)

	_, err = env.query.GetEvent(env.ctx, bob, 12345)
	require.ErrorIs(t, err, errs.ErrNotFound)

	_, err = env.query.GetEvent(env.ctx, admin, e.ID)
	require.NoError(t, err)
}

func TestListEvents_Scoped(t *testing.T) {
	env := newEventEnv()
	env.create(t, alice, "a1", time.Hour)
	env.create(t, alice, "a2", 2*time.Hour)
	env.create(t, bob, "b1", time.Hour)

	mine, err := env.query.ListEvents(env.ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Equal(t, "a2", mine[0].Title)

	all, err := env.query.ListEvents(env.ctx, admin)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestListByDate(t *testing.T) {
	env := newEventEnv()
	// fixedNow is 12:00 UTC; +11h stays on the same day, +13h moves to the next.
	env.create(t, alice, "today", 11*time.Hour)
	env.create(t, alice, "tomorrow", 13*time.Hour)
	env.create(t, bob, "bob today", time.Hour)

	day := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	got, err := env.query.ListByDate(env.ctx, alice, day)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "today", got[0].Title)

	got, err = env.query.ListByDate(env.ctx, admin, day)
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestListUpcoming(t *testing.T) {
	env := newEventEnv()
	for i := 0; i < 3; i++ {
		env.create(t, alice, "a", time.Duration(3-i)*time.Hour)
	}
	c := env.create(t, alice, "cancelled", time.Hour)
	_, err := env.cmd.CancelEvent(env.ctx, alice, c.ID)
	require.NoError(t, err)

	got, err := env.query.ListUpcoming(env.ctx, alice, DefaultUpcomingLimit)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.True(t, got[0].EventDate.Before(got[1].EventDate))

	got, err = env.query.ListUpcoming(env.ctx, alice, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for _, bad := range []int{0, -1, MaxUpcomingLimit + 1} {
		_, err = env.query.ListUpcoming(env.ctx, alice, bad)
		require.ErrorIs(t, err, errs.ErrValidation)
	}

	*env.clock = fixedNow.Add(10 * time.Hour)
	got, err = env.query.ListUpcoming(env.ctx, alice, 50)
	require.NoError(t, err)
	require.Empty(t, got)
}
