package repository

import (
	"context"
	"testing"
	"time"

	"offerless/internal/database/sqldb"
	"offerless/internal/domain/leaderboard"
	"offerless/internal/domain/profile"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileUpdate_DuplicateUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	mock.ExpectQuery(`UPDATE profiles`).
		WithArgs(id, "taken", nil).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err = NewPostgresProfileRepository(sqldb.New(db)).Update(context.Background(), profile.Profile{ID: id, Username: "taken"})
	assert.ErrorIs(t, err, profile.ErrUsernameTaken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery(`FROM profiles`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "display_name", "created_at", "updated_at"}).
			AddRow(id.String(), "jane", "Jane D", now, now))

	p, err := NewPostgresProfileRepository(sqldb.New(db)).GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "jane", p.Username)
	require.NotNil(t, p.DisplayName)
	assert.Equal(t, "Jane D", *p.DisplayName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaderboardStandings_AggregatesOnly(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	since := time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC)
	u1, u2 := uuid.New(), uuid.New()
	mock.ExpectQuery(`LEFT JOIN applications a ON a.owner_id = p.id`).
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "display_name", "total_applications", "applications_last_30_days"}).
			AddRow(u1.String(), "alice", nil, int64(12), int64(3)).
			AddRow(u2.String(), "bob", "Bob", int64(0), int64(0)))

	got, err := NewPostgresLeaderboardRepository(sqldb.New(db)).Standings(context.Background(), since)
	require.NoError(t, err)
	assert.Equal(t, []leaderboard.Entry{
		{UserID: u1, Username: "alice", TotalApplications: 12, ApplicationsLast30Days: 3},
		{UserID: u2, Username: "bob", DisplayName: strPtr("Bob")},
	}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func strPtr(s string) *string { return &s }
