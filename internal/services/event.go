package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eventrsvp/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

// NewEventService returns an EventService backed by eventRepo. Each call is bounded by timeout.
func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

func normalizeDetails(d domain.EventDetails) domain.EventDetails {
	return domain.EventDetails{
		Name:        strings.TrimSpace(d.Name),
		Description: strings.TrimSpace(d.Description),
		Date:        strings.TrimSpace(d.Date),
		Location:    strings.TrimSpace(d.Location),
	}
}

func validateDetails(d domain.EventDetails) error {
	if errs := d.Validate(); len(errs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(errs, "; "))
	}
	return nil
}

func (s *eventService) CreateEvent(ctx context.Context, details domain.EventDetails) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	details = normalizeDetails(details)
	if err := validateDetails(details); err != nil {
		return nil, err
	}
	event := domain.NewEvent(details, time.Now().UTC())
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.eventRepo.GetByID(ctx, id)
}

// ListEvents returns only events whose descriptive fields are all present.
func (s *eventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	out := make([]*domain.Event, 0, len(events))
	for _, e := range events {
		if e.HasRequiredFields() {
			out = append(out, e)
		}
	}
	return out, nil
}

// UpdateEvent replaces the descriptive fields only; participants and head count are untouched.
func (s *eventService) UpdateEvent(ctx context.Context, id string, details domain.EventDetails) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	details = normalizeDetails(details)
	if err := validateDetails(details); err != nil {
		return nil, err
	}
	return s.eventRepo.UpdateDetails(ctx, id, details)
}

func (s *eventService) DeleteEvent(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.eventRepo.Delete(ctx, id)
}
