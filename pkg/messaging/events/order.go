// Package events contains the events published by the storefront.
package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/storefront/pkg/messaging"
	"github.com/shopspring/decimal"
)

// OrderPlacedEvent is published once an order has been recorded for a session.
type OrderPlacedEvent struct {
	// Carrier holds the propagated trace context of the placing request.
	Carrier   map[string]string `json:"carrier,omitempty"`
	OrderID   string            `json:"order_id"`
	SessionID string            `json:"session_id"`
	Total     decimal.Decimal   `json:"total"`
	Currency  string            `json:"currency"`
	Items     int               `json:"items"`
	CreatedAt time.Time         `json:"created_at"`
}

func (o OrderPlacedEvent) Subject() string {
	return messaging.OrdersPlacedSubject
}

func (o OrderPlacedEvent) Payload() ([]byte, error) {
	return json.Marshal(o)
}
