package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/riopardo/rides/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpireStale_Disabled(t *testing.T) {
	uc, _, _ := newTestUC(t, nil)

	n, err := uc.ExpireStale(context.Background())

	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestExpireStale_CancelsUnansweredRequests(t *testing.T) {
	now := createdAt.Add(time.Hour)
	cfg := &models.Config{Rides: models.RidesConfig{PriceTimeout: 2 * time.Minute}}
	uc, mockRepo, mockGW := newTestUC(t, cfg, WithClock(func() time.Time { return now }))
	before := now.Add(-2 * time.Minute)

	stale := storedRide(models.RideStatusWaitingPrice, 1)
	stale.UpdatedAt = now.Add(-5 * time.Minute)

	listed := storedRide(models.RideStatusWaitingPrice, 1)
	listed.ID = "ride-2"
	listed.UpdatedAt = now.Add(-3 * time.Minute)
	// the driver answered between listing and locking
	answered := storedRide(models.RideStatusPriceProposed, 2)
	answered.ID = "ride-2"
	answered.UpdatedAt = now.Add(-10 * time.Second)

	mockRepo.EXPECT().
		ListStale(gomock.Any(), expirableStatuses, before).
		Return([]*models.RideRequest{stale, listed}, nil)
	mockRepo.EXPECT().LoadByID(gomock.Any(), "ride-1").Return(stale, nil)
	mockRepo.EXPECT().LoadByID(gomock.Any(), "ride-2").Return(answered, nil)
	mockRepo.EXPECT().
		Update(gomock.Any(), gomock.Any(), int64(1)).
		DoAndReturn(func(_ context.Context, ride *models.RideRequest, _ int64) error {
			assert.Equal(t, "ride-1", ride.ID)
			assert.Equal(t, models.RideStatusCancelled, ride.Status)
			require.NotNil(t, ride.CancelledBy)
			assert.Equal(t, models.RoleSystem, *ride.CancelledBy)
			return nil
		})
	mockGW.EXPECT().
		PublishTransition(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e models.RideEvent) error {
			assert.Equal(t, models.OpExpire, e.Operation)
			assert.Equal(t, models.System, e.Actor)
			return nil
		})

	n, err := uc.ExpireStale(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestExpireStale_JoinsStoreErrors(t *testing.T) {
	now := createdAt.Add(time.Hour)
	cfg := &models.Config{Rides: models.RidesConfig{PriceTimeout: time.Minute}}
	uc, mockRepo, _ := newTestUC(t, cfg, WithClock(func() time.Time { return now }))

	stale := storedRide(models.RideStatusPriceProposed, 2)
	storeErr := errors.New("disk full")

	mockRepo.EXPECT().ListStale(gomock.Any(), gomock.Any(), gomock.Any()).Return([]*models.RideRequest{stale}, nil)
	mockRepo.EXPECT().LoadByID(gomock.Any(), "ride-1").Return(stale, nil)
	mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), int64(2)).Return(storeErr)

	n, err := uc.ExpireStale(context.Background())

	assert.Zero(t, n)
	assert.ErrorIs(t, err, storeErr)
}

func TestRunExpiry_StopsWithContext(t *testing.T) {
	cfg := &models.Config{Rides: models.RidesConfig{PriceTimeout: time.Minute, ExpiryInterval: time.Hour}}
	uc, _, _ := newTestUC(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- uc.RunExpiry(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("expiry worker did not stop")
	}
}
