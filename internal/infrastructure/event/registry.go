package event

import (
	"context"
	"slices"
	"sync"

	"github.com/purchase-invoice/backend/internal/domain/shared"
)

// allEvents keys handlers registered without a type.
const allEvents = ""

// HandlerRegistry maps event types to handlers. Lookups return the
// handlers for the exact type first, then the catch-all ones, each in
// registration order.
type HandlerRegistry struct {
	mu     sync.RWMutex
	byType map[string][]shared.EventHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{byType: map[string][]shared.EventHandler{}}
}

// Register subscribes handler to eventTypes, or to every event when none
// are given.
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = []string{allEvents}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range eventTypes {
		r.byType[t] = append(r.byType[t], handler)
	}
}

// Unregister drops every registration of handler.
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for t, hs := range r.byType {
		hs = slices.DeleteFunc(hs, func(h shared.EventHandler) bool { return h == handler })
		if len(hs) == 0 {
			delete(r.byType, t)
			continue
		}
		r.byType[t] = hs
	}
}

func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if eventType == allEvents {
		return slices.Clone(r.byType[allEvents])
	}
	return slices.Concat(r.byType[eventType], r.byType[allEvents])
}

// HandlerFunc adapts a function to shared.EventHandler. NewHandlerFunc
// returns it by pointer so Unregister can find it again.
type HandlerFunc struct {
	fn    func(ctx context.Context, event shared.DomainEvent) error
	types []string
}

func NewHandlerFunc(fn func(ctx context.Context, event shared.DomainEvent) error, eventTypes ...string) shared.EventHandler {
	return &HandlerFunc{fn: fn, types: eventTypes}
}

func (h *HandlerFunc) Handle(ctx context.Context, event shared.DomainEvent) error {
	return h.fn(ctx, event)
}

func (h *HandlerFunc) EventTypes() []string { return h.types }
