package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eventrsvp/internal/delivery/http/helpers"
	"eventrsvp/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRSVPController_RSVP(t *testing.T) {
	registered := &domain.Event{ID: "abc", Name: "Clinic", HeadCount: 1, Participants: []string{"a@cornell.edu"}}

	tests := []struct {
		name        string
		domain      string
		body        string
		svcErr      error
		wantStatus  int
		wantEmail   string
		wantMessage string
	}{
		{name: "registers", body: `{"email":"a@cornell.edu"}`, wantStatus: http.StatusOK, wantEmail: "a@cornell.edu"},
		{name: "normalizes email", body: `{"email":"  A@Cornell.EDU "}`, wantStatus: http.StatusOK, wantEmail: "a@cornell.edu"},
		{name: "domain enforced", domain: "cornell.edu", body: `{"email":"a@gmail.com"}`, wantStatus: http.StatusBadRequest, wantMessage: "cornell.edu"},
		{name: "domain accepted", domain: "cornell.edu", body: `{"email":"a@cornell.edu"}`, wantStatus: http.StatusOK, wantEmail: "a@cornell.edu"},
		{name: "missing email", body: `{}`, wantStatus: http.StatusBadRequest, wantMessage: "email is required"},
		{name: "malformed email", body: `{"email":"not-an-email"}`, wantStatus: http.StatusBadRequest, wantMessage: "valid email"},
		{
			name:        "already registered",
			body:        `{"email":"a@cornell.edu"}`,
			svcErr:      domain.ErrAlreadyRegistered,
			wantStatus:  http.StatusBadRequest,
			wantEmail:   "a@cornell.edu",
			wantMessage: "already registered",
		},
		{name: "unknown event", body: `{"email":"a@cornell.edu"}`, svcErr: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantEmail: "a@cornell.edu"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeRSVPService{event: registered, err: tt.svcErr}
			ctrl := NewRSVPController(testLogger, svc, tt.domain)
			req := httptest.NewRequest(http.MethodPost, "/events/abc/headCount/rsvp", strings.NewReader(tt.body))
			req.SetPathValue("id", "abc")
			rr := httptest.NewRecorder()

			ctrl.RSVP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantEmail, svc.lastEmail)
			if tt.wantEmail != "" {
				assert.Equal(t, "register", svc.lastOp)
				assert.Equal(t, "abc", svc.lastID)
			} else {
				assert.Zero(t, svc.calls, "invalid input must not reach the service")
			}
			var got domain.Event
			apiErr := decodeEnvelope(t, rr, &got)
			if tt.wantStatus != http.StatusOK {
				require.NotNil(t, apiErr)
				assert.Contains(t, apiErr.Message, tt.wantMessage)
				return
			}
			assert.Equal(t, 1, got.HeadCount)
		})
	}
}

func TestRSVPController_UnRSVP(t *testing.T) {
	tests := []struct {
		name       string
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{name: "unregisters", wantStatus: http.StatusOK},
		{name: "not registered", svcErr: domain.ErrNotRegistered, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "unknown event", svcErr: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: helpers.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeRSVPService{event: &domain.Event{ID: "abc", Participants: []string{}}, err: tt.svcErr}
			// The domain restriction applies to registration only.
			ctrl := NewRSVPController(testLogger, svc, "cornell.edu")
			req := httptest.NewRequest(http.MethodPost, "/events/abc/headCount/unrsvp", strings.NewReader(`{"email":"Old@Gmail.com"}`))
			req.SetPathValue("id", "abc")
			rr := httptest.NewRecorder()

			ctrl.UnRSVP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "unregister", svc.lastOp)
			assert.Equal(t, "old@gmail.com", svc.lastEmail)
			apiErr := decodeEnvelope(t, rr, nil)
			if tt.wantCode != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantCode, apiErr.Code)
			}
		})
	}
}
