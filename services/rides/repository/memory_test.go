package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/riopardo/rides/internal/pkg/models"
	"github.com/riopardo/rides/services/rides"
	"github.com/riopardo/rides/services/rides/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRideRepo_CreateAndLoad(t *testing.T) {
	repo := repository.NewMemoryRideRepo()
	ctx := context.Background()
	ride := sampleRide()

	require.NoError(t, repo.Create(ctx, ride))
	// repeating the same insert is a no-op
	require.NoError(t, repo.Create(ctx, ride))

	got, err := repo.LoadByID(ctx, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, ride, got)

	// callers cannot reach into stored state
	got.Status = models.RideStatusCancelled
	again, err := repo.LoadByID(ctx, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RideStatusWaitingPrice, again.Status)

	_, err = repo.LoadByID(ctx, "missing")
	assert.ErrorIs(t, err, rides.ErrNotFound)
}

func TestMemoryRideRepo_SingleActivePerPassenger(t *testing.T) {
	repo := repository.NewMemoryRideRepo()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, sampleRide()))

	second := sampleRide()
	second.ID = "ride-2"
	err := repo.Create(ctx, second)

	var conflict *rides.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "ride-1", conflict.ActiveRideID)

	active, err := repo.FindActiveByPassenger(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, "ride-1", active.ID)

	none, err := repo.FindActiveByPassenger(ctx, "P9")
	assert.NoError(t, err)
	assert.Nil(t, none)
}

func TestMemoryRideRepo_Update(t *testing.T) {
	repo := repository.NewMemoryRideRepo()
	ctx := context.Background()
	ride := sampleRide()
	require.NoError(t, repo.Create(ctx, ride))

	next := ride.Clone()
	next.Status = models.RideStatusPriceProposed
	next.ProposedPrice = models.MoneyPtr(1500)
	next.Version = 2
	next.WriteID = "w-2"

	require.NoError(t, repo.Update(ctx, &next, 1))
	// retried write that already committed
	require.NoError(t, repo.Update(ctx, &next, 1))

	stale := ride.Clone()
	stale.Status = models.RideStatusCancelled
	stale.Version = 2
	stale.WriteID = "w-stale"
	assert.ErrorIs(t, repo.Update(ctx, &stale, 1), rides.ErrVersionConflict)

	missing := sampleRide()
	missing.ID = "missing"
	assert.ErrorIs(t, repo.Update(ctx, missing, 1), rides.ErrNotFound)

	got, err := repo.LoadByID(ctx, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RideStatusPriceProposed, got.Status)
	assert.Equal(t, int64(2), got.Version)
}

func TestMemoryRideRepo_CompetingWritesAtSameVersion(t *testing.T) {
	repo := repository.NewMemoryRideRepo()
	ctx := context.Background()
	ride := sampleRide()
	ride.Status = models.RideStatusPriceProposed
	ride.ProposedPrice = models.MoneyPtr(2000)
	require.NoError(t, repo.Create(ctx, ride))

	accept := func(pm models.PaymentMethod, writeID string) models.RideRequest {
		next := ride.Clone()
		next.Status = models.RideStatusAccepted
		next.AcceptedPrice = models.MoneyPtr(2000)
		next.PaymentMethod = &pm
		next.Version = 2
		next.WriteID = writeID
		return next
	}
	pix := accept(models.PaymentMethodPix, "w-pix")
	cash := accept(models.PaymentMethodCash, "w-cash")

	require.NoError(t, repo.Update(ctx, &pix, 1))
	// same version and status, different content: the second writer lost
	assert.ErrorIs(t, repo.Update(ctx, &cash, 1), rides.ErrVersionConflict)

	unstamped := cash
	unstamped.WriteID = ""
	assert.ErrorIs(t, repo.Update(ctx, &unstamped, 1), rides.ErrVersionConflict)

	got, err := repo.LoadByID(ctx, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentMethodPix, *got.PaymentMethod)

	// same id and version from another create
	other := sampleRide()
	other.WriteID = "w-other"
	assert.ErrorIs(t, repo.Create(ctx, other), rides.ErrVersionConflict)
}

func TestMemoryRideRepo_Queries(t *testing.T) {
	repo := repository.NewMemoryRideRepo()
	ctx := context.Background()

	mk := func(id, passenger, driver string, status models.RideStatus, age time.Duration) *models.RideRequest {
		r := sampleRide()
		r.ID = id
		r.PassengerID = passenger
		r.DriverID = driver
		r.Status = status
		r.CreatedAt = createdAt.Add(-age)
		r.UpdatedAt = createdAt.Add(-age)
		return r
	}
	for _, r := range []*models.RideRequest{
		mk("a", "P1", "D1", models.RideStatusCompleted, 3*time.Hour),
		mk("b", "P2", "D1", models.RideStatusWaitingPrice, 2*time.Hour),
		mk("c", "P3", "D1", models.RideStatusPriceProposed, time.Hour),
		mk("d", "P4", "D2", models.RideStatusAccepted, 0),
	} {
		require.NoError(t, repo.Create(ctx, r))
	}

	byDriver, err := repo.FindActiveByDriver(ctx, "D1")
	require.NoError(t, err)
	require.Len(t, byDriver, 2)
	assert.Equal(t, "b", byDriver[0].ID)
	assert.Equal(t, "c", byDriver[1].ID)

	all, err := repo.List(ctx, models.RideFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "d", all[0].ID)

	limited, err := repo.List(ctx, models.RideFilter{DriverID: "D1", Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "c", limited[0].ID)

	done, err := repo.List(ctx, models.RideFilter{Statuses: []models.RideStatus{models.RideStatusCompleted}})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "a", done[0].ID)

	stale, err := repo.ListStale(ctx,
		[]models.RideStatus{models.RideStatusWaitingPrice, models.RideStatusPriceProposed},
		createdAt.Add(-90*time.Minute))
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, "b", stale[0].ID)
}
