package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventrsvp/internal/domain"
)

type rsvpService struct {
	eventRepo      domain.EventRepository
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewRSVPService returns an RSVPService. emailService may be nil to skip confirmations.
func NewRSVPService(eventRepo domain.EventRepository, emailService domain.EmailService, logger *slog.Logger, timeout time.Duration) domain.RSVPService {
	return &rsvpService{
		eventRepo:      eventRepo,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func requireEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	return nil
}

// Register adds email to the event. The repository applies the membership check,
// the set add and the increment as one update, so concurrent calls cannot lose updates.
func (s *rsvpService) Register(ctx context.Context, eventID, email string) (*domain.Event, error) {
	if err := requireEmail(email); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.AddParticipant(ctx, eventID, email)
	if err != nil {
		return nil, err
	}
	s.sendConfirmation(ctx, event, email)
	return event, nil
}

func (s *rsvpService) Unregister(ctx context.Context, eventID, email string) (*domain.Event, error) {
	if err := requireEmail(email); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.eventRepo.RemoveParticipant(ctx, eventID, email)
}

func (s *rsvpService) RemoveParticipant(ctx context.Context, eventID, email string) (*domain.Event, error) {
	event, err := s.Unregister(ctx, eventID, email)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "participant removed by admin", "event_id", eventID, "head_count", event.HeadCount)
	return event, nil
}

// sendConfirmation never fails the registration; delivery problems are logged.
func (s *rsvpService) sendConfirmation(ctx context.Context, event *domain.Event, email string) {
	if s.emailService == nil {
		return
	}
	err := s.emailService.SendRSVPConfirmation(ctx, &domain.RSVPConfirmationEmailData{
		Email:     email,
		EventName: event.Name,
		Date:      event.Date,
		Location:  event.Location,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "rsvp confirmation not sent", "event_id", event.ID, "err", err)
	}
}
