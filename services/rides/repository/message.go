package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/jackc/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/riopardo/rides/internal/pkg/models"
	"github.com/riopardo/rides/services/rides"
)

const (
	pgForeignKeyViolation = "23503"

	messageColumns = `id, ride_id, sender_id, sender_role, receiver_id, content, created_at`
)

// MessageRepository stores ride chat messages in PostgreSQL
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository creates a postgres backed message store. The table is
// created by RideRepository.Migrate.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts msg. A retried insert of the same id is a no-op.
func (r *MessageRepository) Create(ctx context.Context, msg *models.RideMessage) error {
	query := `INSERT INTO ride_messages (` + messageColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query,
		msg.ID, msg.RideID, msg.SenderID, string(msg.SenderRole), msg.ReceiverID, msg.Content, msg.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return rides.NotFoundError(msg.RideID)
		}
		return fmt.Errorf("failed to write message %s: %w", msg.ID, err)
	}
	return nil
}

// ListByRide returns the latest limit messages of the ride, oldest first
func (r *MessageRepository) ListByRide(ctx context.Context, rideID string, limit int) ([]*models.RideMessage, error) {
	query := `SELECT ` + messageColumns + ` FROM (
			SELECT ` + messageColumns + ` FROM ride_messages
			WHERE ride_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2
		) latest ORDER BY created_at ASC, id ASC`

	var out []*models.RideMessage
	if err := r.db.SelectContext(ctx, &out, query, rideID, limit); err != nil {
		return nil, fmt.Errorf("failed to query messages for ride %s: %w", rideID, err)
	}
	for _, m := range out {
		m.CreatedAt = m.CreatedAt.UTC()
	}
	return out, nil
}

// MemoryMessageRepo keeps chat messages in process
type MemoryMessageRepo struct {
	mu     sync.RWMutex
	byRide map[string][]models.RideMessage
	ids    map[string]struct{}
}

// NewMemoryMessageRepo creates an empty in-memory message store
func NewMemoryMessageRepo() *MemoryMessageRepo {
	return &MemoryMessageRepo{
		byRide: make(map[string][]models.RideMessage),
		ids:    make(map[string]struct{}),
	}
}

// Create stores msg unless its id is already known
func (m *MemoryMessageRepo) Create(ctx context.Context, msg *models.RideMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.ids[msg.ID]; ok {
		return nil
	}
	m.ids[msg.ID] = struct{}{}
	m.byRide[msg.RideID] = append(m.byRide[msg.RideID], *msg)
	return nil
}

// ListByRide returns the latest limit messages of the ride, oldest first
func (m *MemoryMessageRepo) ListByRide(ctx context.Context, rideID string, limit int) ([]*models.RideMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := append([]models.RideMessage(nil), m.byRide[rideID]...)
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	if limit > 0 && len(list) > limit {
		list = list[len(list)-limit:]
	}

	out := make([]*models.RideMessage, 0, len(list))
	for i := range list {
		out = append(out, &list[i])
	}
	return out, nil
}
