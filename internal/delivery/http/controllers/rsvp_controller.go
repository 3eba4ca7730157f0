package controllers

import (
	"fmt"
	"log/slog"
	"net/http"

	"eventrsvp/internal/delivery/http/helpers"
	"eventrsvp/internal/domain"
)

// RSVPRequest is the request body for the rsvp and unrsvp endpoints.
type RSVPRequest struct {
	Email string `json:"email" validate:"required"`
}

// RSVPController registers and unregisters emails for events. Emails are
// trimmed and lower-cased before they reach the store.
type RSVPController struct {
	Logger  *slog.Logger
	Service domain.RSVPService
	// AllowedEmailDomain restricts registration to one domain, e.g. "cornell.edu". Empty allows any.
	AllowedEmailDomain string
}

func NewRSVPController(logger *slog.Logger, svc domain.RSVPService, allowedEmailDomain string) *RSVPController {
	return &RSVPController{
		Logger:             logger,
		Service:            svc,
		AllowedEmailDomain: allowedEmailDomain,
	}
}

// decodeEmail reads and normalizes the request email, writing a 400 on failure.
func decodeEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req RSVPRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return "", false
	}
	email := helpers.NormalizeEmail(req.Email)
	if !helpers.ValidEmail(email) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "email must be a valid email address")
		return "", false
	}
	return email, true
}

// RSVP godoc
// @Summary Register for an event
// @Description Adds the email to the event's participants and increments headCount in one atomic update.
// @Tags rsvp
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param body body RSVPRequest true "Registrant email"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (invalid email, already registered)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id}/headCount/rsvp [post]
func (c *RSVPController) RSVP(w http.ResponseWriter, r *http.Request) {
	email, ok := decodeEmail(w, r)
	if !ok {
		return
	}
	if !helpers.EmailInDomain(email, c.AllowedEmailDomain) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest,
			fmt.Sprintf("email must be a %s address", c.AllowedEmailDomain))
		return
	}
	event, err := c.Service.Register(r.Context(), r.PathValue("id"), email)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// UnRSVP godoc
// @Summary Cancel a registration
// @Description Removes the email from the event's participants and decrements headCount in one atomic update.
// @Tags rsvp
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param body body RSVPRequest true "Registrant email"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (invalid email, not registered)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id}/headCount/unrsvp [post]
func (c *RSVPController) UnRSVP(w http.ResponseWriter, r *http.Request) {
	email, ok := decodeEmail(w, r)
	if !ok {
		return
	}
	event, err := c.Service.Unregister(r.Context(), r.PathValue("id"), email)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}
