package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"eventrsvp/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEventID = "6f1c2d0e-8a4b-4c3d-9e2f-1a2b3c4d5e6f"

var (
	testDate    = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	testCreated = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
)

var eventRowColumns = []string{"id", "name", "description", "date", "location", "head_count", "participants", "created_at", "updated_at"}

func eventRow(headCount int, participants string) *sqlmock.Rows {
	return sqlmock.NewRows(eventRowColumns).
		AddRow(testEventID, "Clinic", "d", testDate, "Gym", headCount, participants, testCreated, testCreated)
}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events \(name, description, date, location, head_count, participants, created_at, updated_at\)`).
					WithArgs("Clinic", "d", "2025-06-15", "Gym", 0, sqlmock.AnyArg(), testCreated, testCreated).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(testEventID))
			},
			wantID: testEventID,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			event := domain.NewEvent(domain.EventDetails{Name: "Clinic", Description: "d", Date: "2025-06-15", Location: "Gym"}, testCreated)
			err = repo.Create(ctx, event)
			if tt.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, sql.ErrConnDone)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.Event
		wantErr error
	}{
		{
			name: "success",
			id:   testEventID,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, name, description, date, location, head_count, participants, created_at, updated_at FROM events WHERE id = \$1`).
					WithArgs(testEventID).
					WillReturnRows(eventRow(1, "{a@x.edu}"))
			},
			want: &domain.Event{
				ID:           testEventID,
				Name:         "Clinic",
				Description:  "d",
				Date:         "2025-06-15",
				Location:     "Gym",
				HeadCount:    1,
				Participants: []string{"a@x.edu"},
				CreatedAt:    testCreated,
				UpdatedAt:    testCreated,
			},
		},
		{
			name: "not found",
			id:   testEventID,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, name`).WithArgs(testEventID).WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "malformed id never reaches the database",
			id:      "not-a-uuid",
			mock:    func(mock sqlmock.Sqlmock) {},
			wantErr: domain.ErrInvalidID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			got, err := repo.GetByID(ctx, tt.id)
			require.NoError(t, mock.ExpectationsWereMet())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestEventRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("returns events with empty participant arrays normalized", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows(eventRowColumns).
			AddRow(testEventID, "Clinic", "d", testDate, "Gym", 0, "{}", testCreated, testCreated).
			AddRow("7f1c2d0e-8a4b-4c3d-9e2f-1a2b3c4d5e6f", "Sparring", "s", testDate, "Barton", 2, "{a@x.edu,b@x.edu}", testCreated, testCreated)
		mock.ExpectQuery(`SELECT .* FROM events\s+WHERE name IS NOT NULL AND description IS NOT NULL AND date IS NOT NULL AND location IS NOT NULL`).
			WillReturnRows(rows)

		got, err := NewEventRepository(db).List(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, []string{}, got[0].Participants)
		assert.Equal(t, []string{"a@x.edu", "b@x.edu"}, got[1].Participants)
		assert.Equal(t, 2, got[1].HeadCount)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .* FROM events`).WillReturnError(errors.New("boom"))

		got, err := NewEventRepository(db).List(ctx)
		require.Error(t, err)
		require.Nil(t, got)
	})
}

func TestEventRepository_UpdateDetails(t *testing.T) {
	ctx := context.Background()
	details := domain.EventDetails{Name: "Clinic", Description: "d", Date: "2025-06-15", Location: "Gym"}

	t.Run("success leaves participants untouched", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE events\s+SET name = \$2, description = \$3, date = \$4, location = \$5, updated_at = \$6\s+WHERE id = \$1`).
			WithArgs(testEventID, "Clinic", "d", "2025-06-15", "Gym", sqlmock.AnyArg()).
			WillReturnRows(eventRow(1, "{a@x.edu}"))

		got, err := NewEventRepository(db).UpdateDetails(ctx, testEventID, details)
		require.NoError(t, err)
		assert.Equal(t, 1, got.HeadCount)
		assert.Equal(t, []string{"a@x.edu"}, got.Participants)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE events`).WillReturnError(sql.ErrNoRows)

		_, err = NewEventRepository(db).UpdateDetails(ctx, testEventID, details)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			id:   testEventID,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).WithArgs(testEventID).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			id:   testEventID,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events`).WithArgs(testEventID).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "invalid id",
			id:      "123",
			mock:    func(mock sqlmock.Sqlmock) {},
			wantErr: domain.ErrInvalidID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewEventRepository(db).Delete(ctx, tt.id)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_AddParticipant(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		mock      func(mock sqlmock.Sqlmock)
		wantCount int
		wantErr   error
	}{
		{
			name: "adds email and increments head count",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE events\s+SET participants = array_append\(participants, \$2::text\), head_count = head_count \+ 1`).
					WithArgs(testEventID, "a@x.edu", sqlmock.AnyArg()).
					WillReturnRows(eventRow(1, "{a@x.edu}"))
			},
			wantCount: 1,
		},
		{
			name: "already registered",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE events`).WithArgs(testEventID, "a@x.edu", sqlmock.AnyArg()).
					WillReturnError(sql.ErrNoRows)
				mock.ExpectQuery(`SELECT EXISTS`).WithArgs(testEventID).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			},
			wantErr: domain.ErrAlreadyRegistered,
		},
		{
			name: "event missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE events`).WillReturnError(sql.ErrNoRows)
				mock.ExpectQuery(`SELECT EXISTS`).WithArgs(testEventID).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			got, err := NewEventRepository(db).AddParticipant(ctx, testEventID, "a@x.edu")
			require.NoError(t, mock.ExpectationsWereMet())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, got.HeadCount)
			assert.Len(t, got.Participants, got.HeadCount)
		})
	}
}

func TestEventRepository_RemoveParticipant(t *testing.T) {
	ctx := context.Background()

	t.Run("removes email and decrements head count", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE events\s+SET participants = array_remove\(participants, \$2::text\), head_count = head_count - 1`).
			WithArgs(testEventID, "a@x.edu", sqlmock.AnyArg()).
			WillReturnRows(eventRow(0, "{}"))

		got, err := NewEventRepository(db).RemoveParticipant(ctx, testEventID, "a@x.edu")
		require.NoError(t, err)
		assert.Equal(t, 0, got.HeadCount)
		assert.Empty(t, got.Participants)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not registered", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE events`).WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`SELECT EXISTS`).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		_, err = NewEventRepository(db).RemoveParticipant(ctx, testEventID, "a@x.edu")
		require.ErrorIs(t, err, domain.ErrNotRegistered)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS events`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Migrate(context.Background(), db))
	require.NoError(t, mock.ExpectationsWereMet())
}
