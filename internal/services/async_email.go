package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"eventrsvp/internal/domain"
)

// AsyncEmailService hands confirmations to a background goroutine so a slow
// mail provider never delays the RSVP response. Each send runs on a context
// detached from the request and bounded by its own timeout.
type AsyncEmailService struct {
	next    domain.EmailService
	logger  *slog.Logger
	timeout time.Duration
	pending sync.WaitGroup
}

// NewAsyncEmailService wraps next. timeout bounds each background send.
func NewAsyncEmailService(next domain.EmailService, logger *slog.Logger, timeout time.Duration) *AsyncEmailService {
	return &AsyncEmailService{next: next, logger: logger, timeout: timeout}
}

// SendRSVPConfirmation queues the send and returns immediately. Delivery
// failures are logged, never returned.
func (s *AsyncEmailService) SendRSVPConfirmation(ctx context.Context, data *domain.RSVPConfirmationEmailData) error {
	sendCtx := context.WithoutCancel(ctx)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(sendCtx, s.timeout)
		defer cancel()
		if err := s.next.SendRSVPConfirmation(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "rsvp confirmation not sent", "err", err)
		}
	}()
	return nil
}

// Drain waits for queued sends to finish or for ctx to end.
func (s *AsyncEmailService) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
