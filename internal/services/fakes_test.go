package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"eventrsvp/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeEventRepo is an in-memory EventRepository. Each method holds the lock for
// its whole duration, which models the store's single-document atomicity.
type fakeEventRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.Event
	nextID int
	err    error // if set, every method returns this error
	calls  int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:   make(map[string]*domain.Event),
		nextID: 1,
	}
}

func clone(e *domain.Event) *domain.Event {
	c := *e
	c.Participants = append([]string{}, e.Participants...)
	return &c
}

func (f *fakeEventRepo) seed(e *domain.Event) *domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	if e.Participants == nil {
		e.Participants = []string{}
	}
	f.byID[e.ID] = clone(e)
	return e
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	f.calls++
	err := f.err
	f.mu.Unlock()
	if err != nil {
		return err
	}
	f.seed(e)
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.byID[id]; ok {
		return clone(e), nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) List(ctx context.Context) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.Event, 0, len(f.byID))
	for i := 1; i < f.nextID; i++ {
		if e, ok := f.byID[fmt.Sprintf("ev-%d", i)]; ok {
			out = append(out, clone(e))
		}
	}
	return out, nil
}

func (f *fakeEventRepo) UpdateDetails(ctx context.Context, id string, d domain.EventDetails) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.Name, e.Description, e.Date, e.Location = d.Name, d.Description, d.Date, d.Location
	return clone(e), nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEventRepo) AddParticipant(ctx context.Context, id, email string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if e.HasParticipant(email) {
		return nil, domain.ErrAlreadyRegistered
	}
	e.Participants = append(e.Participants, email)
	e.HeadCount++
	return clone(e), nil
}

func (f *fakeEventRepo) RemoveParticipant(ctx context.Context, id, email string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !e.HasParticipant(email) {
		return nil, domain.ErrNotRegistered
	}
	kept := e.Participants[:0]
	for _, p := range e.Participants {
		if p != email {
			kept = append(kept, p)
		}
	}
	e.Participants = kept
	e.HeadCount--
	return clone(e), nil
}

func (f *fakeEventRepo) Close(ctx context.Context) error { return nil }

func (f *fakeEventRepo) snapshot(id string) *domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return clone(f.byID[id])
}

// fakeEmailService records confirmation requests.
type fakeEmailService struct {
	mu   sync.Mutex
	sent []*domain.RSVPConfirmationEmailData
	err  error
}

func (f *fakeEmailService) SendRSVPConfirmation(ctx context.Context, data *domain.RSVPConfirmationEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}
