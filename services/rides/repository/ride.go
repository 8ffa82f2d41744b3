package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/riopardo/rides/internal/pkg/logger"
	"github.com/riopardo/rides/internal/pkg/models"
	"github.com/riopardo/rides/services/rides"
)

const pgUniqueViolation = "23505"

// RideRepository stores ride requests in PostgreSQL
type RideRepository struct {
	cfg *models.Config
	db  *sqlx.DB
}

// NewRideRepository creates a postgres backed ride store
func NewRideRepository(cfg *models.Config, db *sqlx.DB) *RideRepository {
	logger.Info("Initializing ride repository")
	return &RideRepository{
		cfg: cfg,
		db:  db,
	}
}

// Migrate creates the table and indexes when missing
func (r *RideRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to migrate ride_requests: %w", err)
	}
	return nil
}

// Create inserts a new ride request. Inserting the same id and version twice succeeds.
func (r *RideRepository) Create(ctx context.Context, ride *models.RideRequest) error {
	query := `INSERT INTO ride_requests (` + rideColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (id) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query, toRow(ride).args()...)
	if err != nil {
		return r.mapWriteError(ctx, ride, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 1 {
		return nil
	}

	// the id exists already: either this exact write committed before or it is someone else's ride
	existing, err := r.LoadByID(ctx, ride.ID)
	if err != nil {
		return err
	}
	if existing.PassengerID == ride.PassengerID && sameWrite(existing, ride) {
		return nil
	}
	return fmt.Errorf("%w: ride %s already exists at version %d", rides.ErrVersionConflict, ride.ID, existing.Version)
}

// Update replaces the stored request if it is still at expectedVersion
func (r *RideRepository) Update(ctx context.Context, ride *models.RideRequest, expectedVersion int64) error {
	query := `UPDATE ride_requests SET
			driver_id = $2,
			status = $3,
			proposed_price = $4,
			accepted_price = $5,
			payment_method = $6,
			cancelled_by = $7,
			version = $8,
			updated_at = $9,
			write_id = $10
		WHERE id = $1 AND version = $11`

	row := toRow(ride)
	res, err := r.db.ExecContext(ctx, query,
		row.ID,
		row.DriverID,
		row.Status,
		row.ProposedPrice,
		row.AcceptedPrice,
		row.PaymentMethod,
		row.CancelledBy,
		row.Version,
		row.UpdatedAt,
		row.WriteID,
		expectedVersion,
	)
	if err != nil {
		return r.mapWriteError(ctx, ride, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 1 {
		return nil
	}

	current, err := r.LoadByID(ctx, ride.ID)
	if err != nil {
		return err
	}
	if sameWrite(current, ride) {
		// a retried write that already committed
		return nil
	}
	return fmt.Errorf("%w: ride %s is at version %d, expected %d",
		rides.ErrVersionConflict, ride.ID, current.Version, expectedVersion)
}

// LoadByID retrieves a ride request by id
func (r *RideRepository) LoadByID(ctx context.Context, id string) (*models.RideRequest, error) {
	query := `SELECT ` + rideColumns + ` FROM ride_requests WHERE id = $1`

	var row rideRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, rides.NotFoundError(id)
		}
		return nil, fmt.Errorf("failed to load ride %s: %w", id, err)
	}
	return row.toModel(), nil
}

// FindActiveByPassenger returns the passenger's non-terminal request, or nil when there is none
func (r *RideRepository) FindActiveByPassenger(ctx context.Context, passengerID string) (*models.RideRequest, error) {
	list, err := r.selectRides(ctx,
		`SELECT `+rideColumns+` FROM ride_requests WHERE passenger_id = ? AND status IN (?) ORDER BY created_at DESC LIMIT 1`,
		passengerID, statusStrings(models.ActiveRideStatuses))
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// FindActiveByDriver returns every non-terminal request targeted at the driver, oldest first
func (r *RideRepository) FindActiveByDriver(ctx context.Context, driverID string) ([]*models.RideRequest, error) {
	return r.selectRides(ctx,
		`SELECT `+rideColumns+` FROM ride_requests WHERE driver_id = ? AND status IN (?) ORDER BY created_at ASC`,
		driverID, statusStrings(models.ActiveRideStatuses))
}

// List returns requests matching filter, newest first
func (r *RideRepository) List(ctx context.Context, filter models.RideFilter) ([]*models.RideRequest, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.PassengerID != "" {
		where = append(where, "passenger_id = ?")
		args = append(args, filter.PassengerID)
	}
	if filter.DriverID != "" {
		where = append(where, "driver_id = ?")
		args = append(args, filter.DriverID)
	}
	if len(filter.Statuses) > 0 {
		where = append(where, "status IN (?)")
		args = append(args, statusStrings(filter.Statuses))
	}

	query := `SELECT ` + rideColumns + ` FROM ride_requests`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	return r.selectRides(ctx, query, args...)
}

// ListStale returns requests in one of statuses untouched since before
func (r *RideRepository) ListStale(ctx context.Context, statuses []models.RideStatus, before time.Time) ([]*models.RideRequest, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	return r.selectRides(ctx,
		`SELECT `+rideColumns+` FROM ride_requests WHERE status IN (?) AND updated_at < ? ORDER BY updated_at ASC`,
		statusStrings(statuses), before)
}

func (r *RideRepository) selectRides(ctx context.Context, query string, args ...interface{}) ([]*models.RideRequest, error) {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var rows []rideRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to query rides: %w", err)
	}

	out := make([]*models.RideRequest, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

// mapWriteError turns a violation of the active passenger index into a ConflictError
func (r *RideRepository) mapWriteError(ctx context.Context, ride *models.RideRequest, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		conflict := &rides.ConflictError{PassengerID: ride.PassengerID}
		if active, findErr := r.FindActiveByPassenger(ctx, ride.PassengerID); findErr == nil && active != nil {
			conflict.ActiveRideID = active.ID
		}
		return conflict
	}
	return fmt.Errorf("failed to write ride %s: %w", ride.ID, err)
}
