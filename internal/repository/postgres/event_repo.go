package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"eventrsvp/internal/domain"
)

const eventColumns = `id, name, description, date, location, head_count, participants, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var name, desc, location sql.NullString
	var date sql.NullTime
	var participants []string
	err := row.Scan(&e.ID, &name, &desc, &date, &location, &e.HeadCount, pq.Array(&participants), &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Name = name.String
	e.Description = desc.String
	e.Location = location.String
	if date.Valid {
		e.Date = date.Time.Format(domain.DateLayout)
	}
	if participants == nil {
		participants = []string{}
	}
	e.Participants = participants
	return e, nil
}

// checkID rejects ids that are not UUIDs before they reach the database.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrInvalidID
	}
	return nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (name, description, date, location, head_count, participants, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	participants := e.Participants
	if participants == nil {
		participants = []string{}
	}
	err := r.DB.QueryRowContext(ctx, query,
		e.Name, e.Description, e.Date, e.Location, e.HeadCount, pq.Array(participants), e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// List returns events that have every descriptive field set, oldest date first.
func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE name IS NOT NULL AND description IS NOT NULL AND date IS NOT NULL AND location IS NOT NULL
		ORDER BY date ASC, created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) UpdateDetails(ctx context.Context, id string, d domain.EventDetails) (*domain.Event, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	query := `
		UPDATE events
		SET name = $2, description = $3, date = $4, location = $5, updated_at = $6
		WHERE id = $1
		RETURNING ` + eventColumns
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id, d.Name, d.Description, d.Date, d.Location, time.Now().UTC()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return e, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	result, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddParticipant appends email and increments head_count in one statement.
// The WHERE clause is re-evaluated after a concurrent writer commits, so only one
// of two racing inserts of the same email matches.
func (r *eventRepository) AddParticipant(ctx context.Context, id, email string) (*domain.Event, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	query := `
		UPDATE events
		SET participants = array_append(participants, $2::text), head_count = head_count + 1, updated_at = $3
		WHERE id = $1 AND NOT ($2::text = ANY(participants))
		RETURNING ` + eventColumns
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id, email, time.Now().UTC()))
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("add participant: %w", err)
	}
	return nil, r.missReason(ctx, id, domain.ErrAlreadyRegistered)
}

// RemoveParticipant removes email and decrements head_count in one statement.
func (r *eventRepository) RemoveParticipant(ctx context.Context, id, email string) (*domain.Event, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	query := `
		UPDATE events
		SET participants = array_remove(participants, $2::text), head_count = head_count - 1, updated_at = $3
		WHERE id = $1 AND $2::text = ANY(participants)
		RETURNING ` + eventColumns
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id, email, time.Now().UTC()))
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("remove participant: %w", err)
	}
	return nil, r.missReason(ctx, id, domain.ErrNotRegistered)
}

// missReason tells a missing event apart from a failed membership condition.
func (r *eventRepository) missReason(ctx context.Context, id string, membershipErr error) error {
	var exists bool
	if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check event exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return membershipErr
}

func (r *eventRepository) Close(_ context.Context) error {
	return r.DB.Close()
}
