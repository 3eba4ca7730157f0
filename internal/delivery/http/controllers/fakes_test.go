package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"eventrsvp/internal/delivery/http/helpers"
	"eventrsvp/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	event       *domain.Event
	events      []*domain.Event
	err         error
	lastID      string
	lastDetails domain.EventDetails
	calls       int
}

func (f *fakeEventService) CreateEvent(_ context.Context, d domain.EventDetails) (*domain.Event, error) {
	f.calls++
	f.lastDetails = d
	if f.err != nil {
		return nil, f.err
	}
	e := domain.NewEvent(d, time.Now())
	e.ID = "ev-1"
	return e, nil
}

func (f *fakeEventService) GetEvent(_ context.Context, id string) (*domain.Event, error) {
	f.calls++
	f.lastID = id
	return f.event, f.err
}

func (f *fakeEventService) ListEvents(_ context.Context) ([]*domain.Event, error) {
	f.calls++
	return f.events, f.err
}

func (f *fakeEventService) UpdateEvent(_ context.Context, id string, d domain.EventDetails) (*domain.Event, error) {
	f.calls++
	f.lastID, f.lastDetails = id, d
	return f.event, f.err
}

func (f *fakeEventService) DeleteEvent(_ context.Context, id string) error {
	f.calls++
	f.lastID = id
	return f.err
}

// fakeRSVPService implements domain.RSVPService for handler tests.
type fakeRSVPService struct {
	event     *domain.Event
	err       error
	lastOp    string
	lastID    string
	lastEmail string
	calls     int
}

func (f *fakeRSVPService) record(op, id, email string) (*domain.Event, error) {
	f.calls++
	f.lastOp, f.lastID, f.lastEmail = op, id, email
	return f.event, f.err
}

func (f *fakeRSVPService) Register(_ context.Context, id, email string) (*domain.Event, error) {
	return f.record("register", id, email)
}

func (f *fakeRSVPService) Unregister(_ context.Context, id, email string) (*domain.Event, error) {
	return f.record("unregister", id, email)
}

func (f *fakeRSVPService) RemoveParticipant(_ context.Context, id, email string) (*domain.Event, error) {
	return f.record("remove", id, email)
}

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	token    string
	identity *domain.AdminIdentity
	err      error
}

func (f *fakeAuthService) Login(_ context.Context, _, _ string) (string, *domain.AdminIdentity, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	return f.token, f.identity, nil
}

func (f *fakeAuthService) Verify(token string) (*domain.AdminIdentity, error) {
	if token != f.token {
		return nil, domain.ErrInvalidToken
	}
	return f.identity, nil
}

func (f *fakeAuthService) TokenExpiry() time.Duration { return 24 * time.Hour }

// decodeEnvelope decodes the response envelope, unmarshalling data into dest when non-nil.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) *helpers.APIError {
	t.Helper()
	var raw struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&raw))
	if dest != nil && raw.Error == nil {
		require.NoError(t, json.Unmarshal(raw.Data, dest))
	}
	return raw.Error
}
