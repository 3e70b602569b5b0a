// Package memstore provides in-memory user and event stores with the same
// contracts as the MySQL repositories: not-found and conflict sentinels,
// generated ids and query ordering. Service and router tests share them.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/OscarGAV/eventrely-backend/internal/model"
	"github.com/OscarGAV/eventrely-backend/internal/repository"
)

// Users stores users by id. GetErr, when set, fails every read.
type Users struct {
	mu     sync.Mutex
	rows   map[uint64]model.User
	nextID uint64

	GetErr error
}

func NewUsers() *Users { return &Users{rows: map[uint64]model.User{}} }

func (m *Users) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Username == u.Username || r.Email == u.Email {
			return repository.ErrConflict
		}
	}
	m.nextID++
	u.ID = m.nextID
	m.rows[u.ID] = *u
	return nil
}

func (m *Users) Update(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[u.ID]; !ok {
		return repository.ErrUserNotFound
	}
	for id, r := range m.rows {
		if id != u.ID && r.Email == u.Email {
			return repository.ErrConflict
		}
	}
	m.rows[u.ID] = *u
	return nil
}

// Remove drops a user row, as an out-of-band delete would.
func (m *Users) Remove(id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
}

func (m *Users) find(match func(model.User) bool) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	for _, r := range m.rows {
		if match(r) {
			return &r, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *Users) GetByID(_ context.Context, id uint64) (*model.User, error) {
	return m.find(func(u model.User) bool { return u.ID == id })
}

func (m *Users) GetByUsername(_ context.Context, username string) (*model.User, error) {
	return m.find(func(u model.User) bool { return u.Username == username })
}

func (m *Users) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return m.find(func(u model.User) bool { return u.Email == email })
}

func (m *Users) GetByUsernameOrEmail(_ context.Context, ident string) (*model.User, error) {
	ident = model.NormalizeIdentifier(ident)
	return m.find(func(u model.User) bool { return u.Username == ident || u.Email == ident })
}

func (m *Users) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return m.exists(m.GetByUsername(ctx, model.NormalizeIdentifier(username)))
}

func (m *Users) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return m.exists(m.GetByEmail(ctx, model.NormalizeIdentifier(email)))
}

func (m *Users) exists(_ *model.User, err error) (bool, error) {
	if err == repository.ErrUserNotFound {
		return false, nil
	}
	return err == nil, err
}

// ListAll returns users newest first.
func (m *Users) ListAll(_ context.Context) ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.User, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, &r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// Events stores reminder events by id. UpdateErr, when set, fails every update.
type Events struct {
	mu     sync.Mutex
	rows   map[uint64]model.Event
	nextID uint64

	UpdateErr error
}

func NewEvents() *Events { return &Events{rows: map[uint64]model.Event{}} }

func (m *Events) Create(_ context.Context, e *model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	e.ID = m.nextID
	m.rows[e.ID] = *e
	return nil
}

func (m *Events) Update(_ context.Context, e *model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	if _, ok := m.rows[e.ID]; !ok {
		return repository.ErrEventNotFound
	}
	m.rows[e.ID] = *e
	return nil
}

func (m *Events) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repository.ErrEventNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *Events) GetByID(_ context.Context, id uint64) (*model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrEventNotFound
	}
	return &r, nil
}

// filter returns copies ordered by event date, ascending or descending,
// truncated to limit when limit > 0.
func (m *Events) filter(keep func(*model.Event) bool, asc bool, limit int) []*model.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Event, 0)
	for _, r := range m.rows {
		if keep(&r) {
			out = append(out, &r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if asc {
			return out[i].EventDate.Before(out[j].EventDate)
		}
		return out[i].EventDate.After(out[j].EventDate)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func inWindow(e *model.Event, from, to time.Time) bool {
	return !e.EventDate.Before(from) && e.EventDate.Before(to)
}

func (m *Events) ListByUser(_ context.Context, userID string) ([]*model.Event, error) {
	return m.filter(func(e *model.Event) bool { return e.UserID == userID }, false, 0), nil
}

func (m *Events) ListAll(_ context.Context) ([]*model.Event, error) {
	return m.filter(func(*model.Event) bool { return true }, false, 0), nil
}

func (m *Events) ListByUserAndDate(_ context.Context, userID string, from, to time.Time) ([]*model.Event, error) {
	return m.filter(func(e *model.Event) bool { return e.UserID == userID && inWindow(e, from, to) }, true, 0), nil
}

func (m *Events) ListByDate(_ context.Context, from, to time.Time) ([]*model.Event, error) {
	return m.filter(func(e *model.Event) bool { return inWindow(e, from, to) }, true, 0), nil
}

func (m *Events) ListUpcoming(_ context.Context, userID string, from time.Time, limit int) ([]*model.Event, error) {
	return m.filter(func(e *model.Event) bool { return e.UserID == userID && e.IsUpcoming(from) }, true, limit), nil
}

func (m *Events) ListAllUpcoming(_ context.Context, from time.Time, limit int) ([]*model.Event, error) {
	return m.filter(func(e *model.Event) bool { return e.IsUpcoming(from) }, true, limit), nil
}

func (m *Events) ListOverdue(_ context.Context, now time.Time, limit int) ([]*model.Event, error) {
	return m.filter(func(e *model.Event) bool { return e.IsPending() && e.EventDate.Before(now) }, true, limit), nil
}
