package notification

import (
	"encoding/json"
	"testing"

	"github.com/purchase-invoice/backend/internal/domain/identity"
	"github.com/purchase-invoice/backend/internal/domain/invoice"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventFromSnapshot(t *testing.T) {
	snap := invoice.Snapshot{
		InvoiceID:   42,
		Owner:       identity.NewIdentity("jane@example.com", "Jane", "Doe", ""),
		Amount:      decimal.RequireFromString("60.00"),
		ProductName: "Laptop",
		BillNo:      "BILL-9",
		Status:      invoice.StatusRejected,
	}

	ev := NewEventFromSnapshot(snap, invoice.MessageRejected, SourceDispatcher)

	assert.Equal(t, "42", ev.InvoiceID)
	assert.Equal(t, "jane@example.com", ev.Email)
	assert.Equal(t, "Jane", ev.FirstName)
	assert.Equal(t, "Doe", ev.LastName)
	assert.Equal(t, "Laptop", ev.ProductName)
	assert.Equal(t, SourceDispatcher, ev.Source)
	assert.False(t, ev.CreatedAt.IsZero())
}

func TestEvent_Payload(t *testing.T) {
	ev := &Event{
		InvoiceID:   "42",
		Email:       "jane@example.com",
		FirstName:   "Jane",
		LastName:    "Doe",
		Amount:      decimal.RequireFromString("60.5"),
		ProductName: "Laptop",
		BillNo:      "BILL-9",
		Message:     invoice.MessageCancelled,
	}

	raw, err := json.Marshal(ev.Payload())
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "42", body["invoiceId"])
	assert.Equal(t, "Jane", body["firstName"])
	assert.Equal(t, "Doe", body["lastName"])
	assert.Equal(t, "jane@example.com", body["email"])
	assert.Equal(t, "60.5", body["amount"])
	assert.Equal(t, "Laptop", body["productName"])
	assert.Equal(t, "BILL-9", body["billNo"])
	assert.Equal(t, "Invoice cancelled by user", body["message"])
}
