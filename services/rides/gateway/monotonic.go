package gateway

import (
	"context"
	"sync"

	"github.com/riopardo/rides/internal/pkg/models"
	"github.com/riopardo/rides/services/rides"
)

// Monotonic wraps handler so it only sees events that match filter and are
// newer than the last one it saw for the same request. Late and duplicate
// deliveries are dropped.
func Monotonic(filter models.EventFilter, handler rides.EventHandler) rides.EventHandler {
	var (
		mu   sync.Mutex
		seen = make(map[string]int64)
	)
	return func(ctx context.Context, event models.RideEvent) {
		if !filter.Match(event) {
			return
		}
		mu.Lock()
		if last, ok := seen[event.RequestID]; ok && event.Version <= last {
			mu.Unlock()
			return
		}
		seen[event.RequestID] = event.Version
		mu.Unlock()

		handler(ctx, event)
	}
}
