package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/abgdnv/storefront/pkg/messaging"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderPlacedEvent_Payload(t *testing.T) {
	// given
	ev := OrderPlacedEvent{
		Carrier:   map[string]string{"traceparent": "00-abc-def-01"},
		OrderID:   "ORD-123456",
		SessionID: "session-1",
		Total:     decimal.RequireFromString("64.80"),
		Currency:  "USD",
		Items:     2,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	// when
	data, err := ev.Payload()

	// then
	require.NoError(t, err)
	assert.Equal(t, messaging.OrdersPlacedSubject, ev.Subject())
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "ORD-123456", decoded["order_id"])
	assert.Equal(t, "64.8", decoded["total"])
	assert.Equal(t, "00-abc-def-01", decoded["carrier"].(map[string]any)["traceparent"])
}
