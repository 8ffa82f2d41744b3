package gateway

import (
	"context"
	"errors"
	"sync"

	"github.com/riopardo/rides/internal/pkg/logger"
	"github.com/riopardo/rides/internal/pkg/models"
	"github.com/riopardo/rides/services/rides"
)

const localBufferSize = 256

var errBrokerClosed = errors.New("broker is closed")

// localSubscriber takes either transition events or chat messages
type localSubscriber struct {
	queue     chan func(context.Context)
	onEvent   rides.EventHandler
	onMessage rides.MessageHandler
	userID    string
	done      chan struct{}
}

// LocalBroker fans transition events and chat messages out to in-process
// subscribers. Each subscriber gets its own queue and goroutine, so a slow
// handler never blocks the publisher. Deliveries are dropped for a subscriber
// whose queue is full.
type LocalBroker struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]*localSubscriber
	closed bool
}

// NewLocalBroker creates an in-process broker
func NewLocalBroker() *LocalBroker {
	return &LocalBroker{subs: make(map[int]*localSubscriber)}
}

// PublishTransition queues event for every subscriber
func (b *LocalBroker) PublishTransition(ctx context.Context, event models.RideEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, sub := range b.subs {
		if sub.onEvent == nil {
			continue
		}
		handler := sub.onEvent
		select {
		case sub.queue <- func(ctx context.Context) { handler(ctx, event) }:
		default:
			logger.WarnCtx(ctx, "Dropping ride event for slow subscriber",
				logger.Int("subscriber", id),
				logger.String("ride_id", event.RequestID),
				logger.String("status", string(event.NewStatus)))
		}
	}
	return nil
}

// PublishMessage queues msg for the subscribers of its sender and receiver
func (b *LocalBroker) PublishMessage(ctx context.Context, msg models.RideMessage) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, sub := range b.subs {
		if sub.onMessage == nil || !msg.Involves(sub.userID) {
			continue
		}
		handler := sub.onMessage
		select {
		case sub.queue <- func(ctx context.Context) { handler(ctx, msg) }:
		default:
			logger.WarnCtx(ctx, "Dropping ride message for slow subscriber",
				logger.Int("subscriber", id),
				logger.String("ride_id", msg.RideID),
				logger.String("message_id", msg.ID))
		}
	}
	return nil
}

// Subscribe registers handler for events matching filter
func (b *LocalBroker) Subscribe(filter models.EventFilter, handler rides.EventHandler) (func(), error) {
	return b.add(&localSubscriber{onEvent: Monotonic(filter, handler)})
}

// SubscribeMessages registers handler for messages userID sent or receives
func (b *LocalBroker) SubscribeMessages(userID string, handler rides.MessageHandler) (func(), error) {
	return b.add(&localSubscriber{onMessage: handler, userID: userID})
}

func (b *LocalBroker) add(sub *localSubscriber) (func(), error) {
	sub.queue = make(chan func(context.Context), localBufferSize)
	sub.done = make(chan struct{})

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, errBrokerClosed
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = sub
	b.mu.Unlock()

	go func() {
		defer close(sub.done)
		for deliver := range sub.queue {
			deliver(context.Background())
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}, nil
}

// remove stops delivery to a subscriber; queued events are still handled
func (b *LocalBroker) remove(id int) *localSubscriber {
	b.mu.Lock()
	sub, ok := b.subs[id]
	delete(b.subs, id)
	b.mu.Unlock()
	if !ok {
		return nil
	}
	close(sub.queue)
	return sub
}

// Close stops every subscriber and waits until each drained its queue
func (b *LocalBroker) Close() {
	b.mu.Lock()
	b.closed = true
	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	b.mu.Unlock()

	for _, id := range ids {
		if sub := b.remove(id); sub != nil {
			<-sub.done
		}
	}
}
