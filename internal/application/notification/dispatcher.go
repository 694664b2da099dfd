// Package notification emits and records invoice rejection and
// cancellation notifications.
package notification

import (
	"context"
	"sync"
	"time"

	"github.com/purchase-invoice/backend/internal/domain/invoice"
	"github.com/purchase-invoice/backend/internal/domain/notification"
	"github.com/purchase-invoice/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const defaultDeliveryTimeout = 5 * time.Second

// Deliverer POSTs a payload to one destination
type Deliverer interface {
	Post(ctx context.Context, url string, payload any) error
}

// Archiver keeps a durable copy of each emitted record
type Archiver interface {
	Archive(ctx context.Context, event *notification.Event) error
}

// Dispatcher persists each notification and fans it out to the
// configured destinations, started in configured order. Each destination
// gets its own goroutine and timeout, so a slow or failing one never
// holds up the others or the caller.
type Dispatcher struct {
	repo         notification.Repository
	deliverer    Deliverer
	destinations []string
	timeout      time.Duration
	archiver     Archiver
	metrics      *telemetry.InvoiceMetrics
	logger       *zap.Logger

	inFlight sync.WaitGroup
}

// DispatcherOption configures a Dispatcher
type DispatcherOption func(*Dispatcher)

// WithDeliveryTimeout bounds each POST
func WithDeliveryTimeout(d time.Duration) DispatcherOption {
	return func(disp *Dispatcher) {
		if d > 0 {
			disp.timeout = d
		}
	}
}

// WithArchiver also stores every record through a
func WithArchiver(a Archiver) DispatcherOption {
	return func(disp *Dispatcher) {
		disp.archiver = a
	}
}

// WithDispatcherMetrics counts delivery outcomes
func WithDispatcherMetrics(m *telemetry.InvoiceMetrics) DispatcherOption {
	return func(disp *Dispatcher) {
		disp.metrics = m
	}
}

// WithDispatcherLogger sets the logger
func WithDispatcherLogger(logger *zap.Logger) DispatcherOption {
	return func(disp *Dispatcher) {
		if logger != nil {
			disp.logger = logger
		}
	}
}

// NewDispatcher creates a Dispatcher. destinations is copied; its order is
// the delivery order.
func NewDispatcher(repo notification.Repository, deliverer Deliverer, destinations []string, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		repo:         repo,
		deliverer:    deliverer,
		destinations: append([]string(nil), destinations...),
		timeout:      defaultDeliveryTimeout,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Destinations returns the configured destinations in delivery order
func (d *Dispatcher) Destinations() []string {
	return append([]string(nil), d.destinations...)
}

// Emit records the notification and starts its deliveries. Only a
// failure to persist the record is returned.
func (d *Dispatcher) Emit(ctx context.Context, snap invoice.Snapshot, message string) error {
	event := notification.NewEventFromSnapshot(snap, message, notification.SourceDispatcher)
	if err := d.repo.Save(ctx, event); err != nil {
		d.logger.Error("failed to record notification",
			zap.Int64("invoice_id", snap.InvoiceID),
			zap.Error(err),
		)
		return err
	}

	d.logger.Warn("SECURITY ALERT - "+message,
		zap.String("invoice_id", event.InvoiceID),
		zap.String("email", event.Email),
		zap.String("bill_no", event.BillNo),
		zap.String("amount", event.Amount.String()),
		zap.String("product_name", event.ProductName),
	)

	// deliveries outlive the request but keep its trace
	bg := context.WithoutCancel(ctx)
	payload := event.Payload()

	for _, url := range d.destinations {
		d.inFlight.Add(1)
		go func(url string) {
			defer d.inFlight.Done()
			d.deliver(bg, url, payload)
		}(url)
	}

	if d.archiver != nil {
		d.inFlight.Add(1)
		go func() {
			defer d.inFlight.Done()
			d.archive(bg, event)
		}()
	}

	return nil
}

func (d *Dispatcher) deliver(ctx context.Context, url string, payload notification.Payload) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	err := d.deliverer.Post(ctx, url, payload)
	d.metrics.RecordDelivery(ctx, err == nil)
	if err != nil {
		d.logger.Error("webhook delivery failed",
			zap.String("url", url),
			zap.String("invoice_id", payload.InvoiceID),
			zap.Error(err),
		)
		return
	}
	d.logger.Info("webhook delivered",
		zap.String("url", url),
		zap.String("invoice_id", payload.InvoiceID),
	)
}

func (d *Dispatcher) archive(ctx context.Context, event *notification.Event) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := d.archiver.Archive(ctx, event); err != nil {
		d.logger.Error("failed to archive notification",
			zap.Int64("notification_id", event.ID),
			zap.Error(err),
		)
	}
}

// Close waits for in-flight deliveries or until ctx is done
func (d *Dispatcher) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.inFlight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
