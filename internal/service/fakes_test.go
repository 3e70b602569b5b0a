package service

import (
	"context"
	"errors"
	"sync"
	"unicode/utf8"

	"github.com/OscarGAV/eventrely-backend/internal/errs"
	"github.com/OscarGAV/eventrely-backend/internal/memstore"
	"github.com/OscarGAV/eventrely-backend/internal/queue"
)

var (
	_ UserStore  = (*memstore.Users)(nil)
	_ EventStore = (*memstore.Events)(nil)
)

type recordingPublisher struct {
	mu   sync.Mutex
	sent []queue.ReminderEvent
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.ReminderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, ev)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.sent))
	for i, ev := range p.sent {
		out[i] = ev.Type
	}
	return out
}

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) {
	if utf8.RuneCountInString(p) < 8 {
		return "", errs.Validation("Password must be at least 8 characters long")
	}
	return "h:" + p, nil
}
func (plainHasher) Verify(p, h string) bool { return h == "h:"+p }

var errBoom = errors.New("boom")
