package controllers

import (
	"log/slog"
	"net/http"

	"eventrsvp/internal/delivery/http/helpers"
	"eventrsvp/internal/delivery/http/middleware"
	"eventrsvp/internal/domain"
)

// EventSummary identifies an event in the registrations view.
type EventSummary struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Date string `json:"date"`
}

// EventRSVPsResponse is the data payload for GET /admin/events/{id}/rsvps.
type EventRSVPsResponse struct {
	Event        EventSummary `json:"event"`
	Participants []string     `json:"participants"`
}

// EventRSVPsSuccessResponse is the success response envelope for GET /admin/events/{id}/rsvps (200).
type EventRSVPsSuccessResponse struct {
	Data  EventRSVPsResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// CheckAuthSuccessResponse is the success response envelope for GET /admin/check-auth (200).
type CheckAuthSuccessResponse struct {
	Data  domain.AdminIdentity `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// AdminController serves the admin-only views. Every route is wrapped in RequireAdmin.
type AdminController struct {
	Logger *slog.Logger
	Events domain.EventService
	RSVPs  domain.RSVPService
}

func NewAdminController(logger *slog.Logger, events domain.EventService, rsvps domain.RSVPService) *AdminController {
	return &AdminController{
		Logger: logger,
		Events: events,
		RSVPs:  rsvps,
	}
}

// ListEvents godoc
// @Summary List events (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListEventsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events [get]
func (c *AdminController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Events.ListEvents(r.Context())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// EventRSVPs godoc
// @Summary List an event's registrants
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} controllers.EventRSVPsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (malformed id)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{id}/rsvps [get]
func (c *AdminController) EventRSVPs(w http.ResponseWriter, r *http.Request) {
	event, err := c.Events.GetEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	participants := event.Participants
	if participants == nil {
		participants = []string{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventRSVPsResponse{
		Event:        EventSummary{ID: event.ID, Name: event.Name, Date: event.Date},
		Participants: participants,
	})
}

// RemoveRSVP godoc
// @Summary Remove a registrant
// @Description Removes the email (exact match, URL-encoded in the path) and decrements headCount.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param email path string true "Registrant email"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (not registered)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{id}/rsvps/{email} [delete]
func (c *AdminController) RemoveRSVP(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	if email == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing email")
		return
	}
	event, err := c.RSVPs.RemoveParticipant(r.Context(), r.PathValue("id"), email)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// CheckAuth godoc
// @Summary Check the admin session
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.CheckAuthSuccessResponse "data contains the admin identity"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /admin/check-auth [get]
func (c *AdminController) CheckAuth(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.AdminFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, identity)
}
