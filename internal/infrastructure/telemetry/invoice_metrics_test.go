package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/purchase-invoice/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestNewInvoiceMetrics_NilMeter(t *testing.T) {
	m, err := telemetry.NewInvoiceMetrics(nil)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
}

func TestInvoiceMetrics_Record(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	m, err := telemetry.NewInvoiceMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordSubmitted(ctx, "APPROVED", decimal.RequireFromString("150.50"))
	m.RecordSubmitted(ctx, "APPROVED", decimal.RequireFromString("49.50"))
	m.RecordSubmitted(ctx, "REJECTED", decimal.RequireFromString("500"))
	m.RecordCancelled(ctx)
	m.RecordDelivery(ctx, true)
	m.RecordDelivery(ctx, false)
	m.RecordDuration(ctx, "create", 15*time.Millisecond)

	data := collect(t, reader)

	submitted, ok := data["invoice_submitted_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range submitted.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(3), total)
	assert.Len(t, submitted.DataPoints, 2)

	amount, ok := data["invoice_approved_amount_total"].(metricdata.Sum[float64])
	require.True(t, ok)
	require.Len(t, amount.DataPoints, 1)
	assert.InDelta(t, 200.0, amount.DataPoints[0].Value, 0.0001)

	cancelled, ok := data["invoice_cancelled_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(1), cancelled.DataPoints[0].Value)

	deliveries, ok := data["notification_webhook_deliveries_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Len(t, deliveries.DataPoints, 2)

	_, ok = data["invoice_operation_duration_seconds"].(metricdata.Histogram[float64])
	assert.True(t, ok)
}

func TestInvoiceMetrics_NilReceiver(t *testing.T) {
	var m *telemetry.InvoiceMetrics
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordSubmitted(ctx, "APPROVED", decimal.NewFromInt(1))
		m.RecordCancelled(ctx)
		m.RecordDelivery(ctx, true)
		m.RecordDuration(ctx, "cancel", time.Millisecond)
	})
}
