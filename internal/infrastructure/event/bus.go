// Package event provides the in-process domain event bus. Application
// services publish after their transaction commits; subscribers run
// synchronously on the publishing goroutine.
package event

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/purchase-invoice/backend/internal/domain/shared"
	"go.uber.org/zap"
)

var _ shared.EventBus = (*InMemoryEventBus)(nil)

type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	running  atomic.Bool
	inFlight sync.WaitGroup
}

func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryEventBus{registry: NewHandlerRegistry(), logger: logger.Named("event-bus")}
}

// Publish hands every event to its subscribers in order. A failing or
// panicking subscriber is logged and skipped; Publish itself only fails
// when nothing could be attempted, which never happens in memory.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	b.inFlight.Add(1)
	defer b.inFlight.Done()

	for _, ev := range events {
		for _, h := range b.registry.GetHandlers(ev.EventType()) {
			if err := safeHandle(ctx, h, ev); err != nil {
				b.logger.Error("Event handler failed",
					zap.String("event_type", ev.EventType()),
					zap.Stringer("event_id", ev.EventID()),
					zap.String("aggregate_id", ev.AggregateID()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers handler for eventTypes, defaulting to the types the
// handler declares.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("Handler subscribed", zap.Strings("event_types", eventTypes))
}

func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

func (b *InMemoryEventBus) Start(context.Context) error {
	b.running.Store(true)
	b.logger.Info("Event bus started")
	return nil
}

// Stop marks the bus stopped and waits for publishes already underway,
// giving up when ctx ends.
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.running.Store(false)

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		b.inFlight.Wait()
	}()

	select {
	case <-ctx.Done():
		b.logger.Warn("Event bus stopped with handlers still running")
		return ctx.Err()
	case <-drained:
		b.logger.Info("Event bus stopped")
		return nil
	}
}

func (b *InMemoryEventBus) Running() bool {
	return b.running.Load()
}

func safeHandle(ctx context.Context, h shared.EventHandler, ev shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = shared.Errorf("HANDLER_PANIC", "event handler panicked: %v", r)
		}
	}()
	return h.Handle(ctx, ev)
}
