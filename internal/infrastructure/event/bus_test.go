package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/purchase-invoice/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testEvent implements DomainEvent for testing
type testEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Invoice", "42"),
		Data:            "test data",
	}
}

// testHandler implements EventHandler for testing
type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("InvoiceRejected")
	bus.Subscribe(handler, "InvoiceRejected")

	event := newTestEvent("InvoiceRejected")
	err := bus.Publish(context.Background(), event)

	require.NoError(t, err)
	require.Len(t, handler.getHandled(), 1)
	assert.Equal(t, event, handler.getHandled()[0])
}

func TestInMemoryEventBus_SubscribeUsesHandlerTypes(t *testing.T) {
	bus := NewInMemoryEventBus(nil)

	handler := newTestHandler("InvoiceRejected", "InvoiceCancelled")
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent("InvoiceRejected"),
		newTestEvent("InvoiceApproved"),
		newTestEvent("InvoiceCancelled"),
	))

	handled := handler.getHandled()
	require.Len(t, handled, 2)
	assert.Equal(t, "InvoiceRejected", handled[0].EventType())
	assert.Equal(t, "InvoiceCancelled", handled[1].EventType())
}

func TestInMemoryEventBus_Publish_WildcardHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	wildcardHandler := newTestHandler()
	bus.Subscribe(wildcardHandler)

	err := bus.Publish(context.Background(), newTestEvent("AnyEventType"))

	require.NoError(t, err)
	assert.Len(t, wildcardHandler.getHandled(), 1)
}

func TestInMemoryEventBus_Publish_HandlerErrorAndPanic(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	failing := newTestHandler("InvoiceRejected")
	failing.err = errors.New("handler error")
	panicking := NewHandlerFunc(func(ctx context.Context, event shared.DomainEvent) error {
		panic("boom")
	}, "InvoiceRejected")
	healthy := newTestHandler("InvoiceRejected")

	bus.Subscribe(failing, "InvoiceRejected")
	bus.Subscribe(panicking)
	bus.Subscribe(healthy, "InvoiceRejected")

	err := bus.Publish(context.Background(), newTestEvent("InvoiceRejected"))

	require.NoError(t, err)
	assert.Len(t, failing.getHandled(), 1)
	assert.Len(t, healthy.getHandled(), 1)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	calls := 0
	handler := NewHandlerFunc(func(ctx context.Context, event shared.DomainEvent) error {
		calls++
		return nil
	}, "InvoiceCancelled")
	bus.Subscribe(handler)

	_ = bus.Publish(context.Background(), newTestEvent("InvoiceCancelled"))
	bus.Unsubscribe(handler)
	_ = bus.Publish(context.Background(), newTestEvent("InvoiceCancelled"))

	assert.Equal(t, 1, calls)
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	require.NoError(t, bus.Start(context.Background()))
	assert.True(t, bus.Running())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(ctx))
	assert.False(t, bus.Running())
}

func TestInMemoryEventBus_StopWaitsForPublish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	release := make(chan struct{})
	started := make(chan struct{})
	bus.Subscribe(NewHandlerFunc(func(ctx context.Context, event shared.DomainEvent) error {
		close(started)
		<-release
		return nil
	}, "InvoiceRejected"))

	go func() { _ = bus.Publish(context.Background(), newTestEvent("InvoiceRejected")) }()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bus.Stop(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, bus.Stop(context.Background()))
}
