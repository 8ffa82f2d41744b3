package repository_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgconn"
	"github.com/riopardo/rides/internal/pkg/models"
	"github.com/riopardo/rides/services/rides"
	"github.com/riopardo/rides/services/rides/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var messageColumns = []string{"id", "ride_id", "sender_id", "sender_role", "receiver_id", "content", "created_at"}

func sampleMessage(id string, at time.Time) *models.RideMessage {
	return &models.RideMessage{
		ID:         id,
		RideID:     "ride-1",
		SenderID:   "P1",
		SenderRole: models.RolePassenger,
		ReceiverID: "D1",
		Content:    "Estou na frente da farmácia",
		CreatedAt:  at,
	}
}

func TestMessageRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewMessageRepository(db)
	msg := sampleMessage("m-1", createdAt)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ride_messages")).
		WithArgs("m-1", "ride-1", "P1", "passenger", "D1", msg.Content, createdAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assert.NoError(t, repo.Create(context.Background(), msg))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_CreateForUnknownRide(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewMessageRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ride_messages")).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := repo.Create(context.Background(), sampleMessage("m-1", createdAt))
	assert.ErrorIs(t, err, rides.ErrNotFound)
}

func TestMessageRepository_CreateDatabaseError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewMessageRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ride_messages")).
		WillReturnError(sql.ErrConnDone)

	err := repo.Create(context.Background(), sampleMessage("m-1", createdAt))
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.False(t, rides.IsDomainError(err))
}

func TestMessageRepository_ListByRide(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewMessageRepository(db)
	first := sampleMessage("m-1", createdAt)
	second := sampleMessage("m-2", createdAt.Add(time.Second))

	rows := sqlmock.NewRows(messageColumns)
	for _, m := range []*models.RideMessage{first, second} {
		rows.AddRow(m.ID, m.RideID, m.SenderID, string(m.SenderRole), m.ReceiverID, m.Content, m.CreatedAt)
	}
	mock.ExpectQuery(regexp.QuoteMeta("WHERE ride_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2")).
		WithArgs("ride-1", 50).
		WillReturnRows(rows)

	got, err := repo.ListByRide(context.Background(), "ride-1", 50)
	require.NoError(t, err)
	assert.Equal(t, []*models.RideMessage{first, second}, got)
}

func TestMemoryMessageRepo(t *testing.T) {
	repo := repository.NewMemoryMessageRepo()
	ctx := context.Background()

	for i, id := range []string{"m-1", "m-2", "m-3"} {
		require.NoError(t, repo.Create(ctx, sampleMessage(id, createdAt.Add(time.Duration(i)*time.Second))))
	}
	// a retried insert is not stored twice
	require.NoError(t, repo.Create(ctx, sampleMessage("m-1", createdAt)))

	all, err := repo.ListByRide(ctx, "ride-1", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "m-1", all[0].ID)

	latest, err := repo.ListByRide(ctx, "ride-1", 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "m-2", latest[0].ID)
	assert.Equal(t, "m-3", latest[1].ID)

	none, err := repo.ListByRide(ctx, "ride-9", 10)
	assert.NoError(t, err)
	assert.Empty(t, none)
}
