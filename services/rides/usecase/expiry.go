package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/riopardo/rides/internal/pkg/logger"
	"github.com/riopardo/rides/internal/pkg/models"
	"github.com/riopardo/rides/services/rides"
)

// expirableStatuses are the states in which one party is waiting on the other's answer
var expirableStatuses = []models.RideStatus{
	models.RideStatusWaitingPrice,
	models.RideStatusPriceProposed,
}

// errNotStale means the request moved on between listing and locking it
var errNotStale = errors.New("ride request is no longer stale")

// ExpireStale cancels every unanswered request older than the price timeout
func (uc *rideUC) ExpireStale(ctx context.Context) (int, error) {
	timeout := uc.cfg.Rides.PriceTimeout
	if timeout <= 0 {
		return 0, nil
	}
	before := uc.now().Add(-timeout)

	var stale []*models.RideRequest
	err := uc.retrier.Execute(ctx, "list stale rides", func(ctx context.Context) error {
		var listErr error
		stale, listErr = uc.repo.ListStale(ctx, expirableStatuses, before)
		return listErr
	})
	if err != nil {
		return 0, err
	}

	var (
		expired int
		errs    []error
	)
	for _, candidate := range stale {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		_, err := uc.apply(ctx, candidate.ID, models.OpExpire, func(r models.RideRequest) (models.RideRequest, models.RideEvent, error) {
			if !r.UpdatedAt.Before(before) {
				return r, models.RideEvent{}, errNotStale
			}
			return uc.machine.Expire(r)
		})
		switch {
		case err == nil:
			expired++
		case errors.Is(err, errNotStale), errors.Is(err, rides.ErrInvalidTransition):
			// answered meanwhile
		default:
			errs = append(errs, err)
		}
	}

	if expired > 0 || len(errs) > 0 {
		logger.InfoCtx(ctx, "Expired stale ride requests",
			logger.Int("candidates", len(stale)),
			logger.Int("expired", expired),
			logger.Int("failed", len(errs)))
	}
	return expired, errors.Join(errs...)
}

// RunExpiry calls ExpireStale on every tick until ctx is done
func (uc *rideUC) RunExpiry(ctx context.Context) error {
	if uc.cfg.Rides.PriceTimeout <= 0 {
		logger.Info("Ride expiry disabled")
		<-ctx.Done()
		return nil
	}

	interval := uc.cfg.Rides.ExpiryInterval
	if interval <= 0 {
		interval = uc.cfg.Rides.PriceTimeout / 4
	}
	if interval < time.Second {
		interval = time.Second
	}

	logger.Info("Starting ride expiry worker",
		logger.Duration("price_timeout", uc.cfg.Rides.PriceTimeout),
		logger.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Ride expiry worker stopped")
			return nil
		case <-ticker.C:
			if _, err := uc.ExpireStale(ctx); err != nil && ctx.Err() == nil {
				logger.Error("Ride expiry pass failed", logger.Err(err))
			}
		}
	}
}
