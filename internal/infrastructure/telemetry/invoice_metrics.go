package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when no meter is supplied
var ErrMeterNil = errors.New("NewInvoiceMetrics: meter cannot be nil")

// Delivery results reported for webhook notifications
const (
	DeliverySucceeded = "success"
	DeliveryFailed    = "failure"
)

// InvoiceMetrics records the business side of the invoice lifecycle.
// A nil *InvoiceMetrics is valid and records nothing.
type InvoiceMetrics struct {
	submittedTotal      *Counter
	approvedAmountTotal *FloatCounter
	cancelledTotal      *Counter
	deliveriesTotal     *Counter
	operationDuration   *Histogram
}

// NewInvoiceMetrics creates the lifecycle instruments on meter
func NewInvoiceMetrics(meter metric.Meter) (*InvoiceMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	var (
		m   InvoiceMetrics
		err error
	)

	if m.submittedTotal, err = NewCounter(meter,
		"invoice_submitted_total", "Invoices submitted, by decided status", "{invoices}"); err != nil {
		return nil, err
	}
	if m.approvedAmountTotal, err = NewFloatCounter(meter,
		"invoice_approved_amount_total", "Sum of approved invoice amounts", "{currency}"); err != nil {
		return nil, err
	}
	if m.cancelledTotal, err = NewCounter(meter,
		"invoice_cancelled_total", "Invoices cancelled by their owner", "{invoices}"); err != nil {
		return nil, err
	}
	if m.deliveriesTotal, err = NewCounter(meter,
		"notification_webhook_deliveries_total", "Webhook delivery attempts, by result", "{deliveries}"); err != nil {
		return nil, err
	}
	if m.operationDuration, err = NewHistogram(meter,
		"invoice_operation_duration_seconds", "Duration of lifecycle operations", "s", ServiceDurationBuckets...); err != nil {
		return nil, err
	}

	return &m, nil
}

// RecordSubmitted counts a created invoice; approved amounts are summed
func (m *InvoiceMetrics) RecordSubmitted(ctx context.Context, status string, amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.submittedTotal.Inc(ctx, AttrInvoiceStatus.String(status))
	if status == "APPROVED" {
		m.approvedAmountTotal.Add(ctx, amount.InexactFloat64())
	}
}

// RecordCancelled counts a cancellation
func (m *InvoiceMetrics) RecordCancelled(ctx context.Context) {
	if m == nil {
		return
	}
	m.cancelledTotal.Inc(ctx)
}

// RecordDelivery counts one webhook POST outcome
func (m *InvoiceMetrics) RecordDelivery(ctx context.Context, ok bool) {
	if m == nil {
		return
	}
	result := DeliverySucceeded
	if !ok {
		result = DeliveryFailed
	}
	m.deliveriesTotal.Inc(ctx, AttrDeliveryResult.String(result))
}

// RecordDuration records how long operation took
func (m *InvoiceMetrics) RecordDuration(ctx context.Context, operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.operationDuration.RecordDuration(ctx, d, AttrOperation.String(operation))
}
