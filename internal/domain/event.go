package domain

import (
	"context"
	"strings"
	"time"
)

// DateLayout is the calendar date format used for Event.Date.
const DateLayout = "2006-01-02"

// Event represents a schedulable item users can RSVP to.
// Participants holds unique emails and HeadCount always equals len(Participants).
// swagger:model Event
type Event struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Date         string    `json:"date"`
	Location     string    `json:"location"`
	HeadCount    int       `json:"headCount"`
	Participants []string  `json:"participants"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// EventDetails are the editable descriptive fields of an event.
type EventDetails struct {
	Name        string
	Description string
	Date        string
	Location    string
}

// NewEvent returns an Event with no participants. ID is set by the repository on create.
func NewEvent(details EventDetails, createdAt time.Time) *Event {
	return &Event{
		Name:         details.Name,
		Description:  details.Description,
		Date:         details.Date,
		Location:     details.Location,
		HeadCount:    0,
		Participants: []string{},
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

// HasRequiredFields reports whether every descriptive field is set.
// Listings skip events that fail this check.
func (e *Event) HasRequiredFields() bool {
	return strings.TrimSpace(e.Name) != "" &&
		strings.TrimSpace(e.Description) != "" &&
		strings.TrimSpace(e.Date) != "" &&
		strings.TrimSpace(e.Location) != ""
}

// HasParticipant reports whether email is registered (exact match).
func (e *Event) HasParticipant(email string) bool {
	for _, p := range e.Participants {
		if p == email {
			return true
		}
	}
	return false
}

// Validate returns error messages for missing or malformed details.
func (d EventDetails) Validate() []string {
	var errs []string
	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(d.Description) == "" {
		errs = append(errs, "description is required")
	}
	if strings.TrimSpace(d.Date) == "" {
		errs = append(errs, "date is required")
	} else if _, err := time.Parse(DateLayout, d.Date); err != nil {
		errs = append(errs, "date must be formatted as YYYY-MM-DD")
	}
	if strings.TrimSpace(d.Location) == "" {
		errs = append(errs, "location is required")
	}
	return errs
}

// EventRepository defines the interface for event storage.
// AddParticipant and RemoveParticipant must each be a single atomic update:
// the membership condition, the set change and the head count change apply together or not at all.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	UpdateDetails(ctx context.Context, id string, details EventDetails) (*Event, error)
	Delete(ctx context.Context, id string) error
	// AddParticipant returns ErrNotFound or ErrAlreadyRegistered when nothing changed.
	AddParticipant(ctx context.Context, id, email string) (*Event, error)
	// RemoveParticipant returns ErrNotFound or ErrNotRegistered when nothing changed.
	RemoveParticipant(ctx context.Context, id, email string) (*Event, error)
	Close(ctx context.Context) error
}

// EventService defines the business logic for event management.
type EventService interface {
	CreateEvent(ctx context.Context, details EventDetails) (*Event, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	ListEvents(ctx context.Context) ([]*Event, error)
	UpdateEvent(ctx context.Context, id string, details EventDetails) (*Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

// RSVPService keeps head counts and participant sets consistent.
type RSVPService interface {
	Register(ctx context.Context, eventID, email string) (*Event, error)
	Unregister(ctx context.Context, eventID, email string) (*Event, error)
	// RemoveParticipant is the admin-initiated form of Unregister.
	RemoveParticipant(ctx context.Context, eventID, email string) (*Event, error)
}
