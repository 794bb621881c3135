package events

import (
	"time"

	"github.com/google/uuid"
)

const TypeOrderCreated = "order.created"

// OrderCreatedEvent is published after a checkout commits. Downstream
// consumers (the relay, vendor notifications) key on VendorIDs.
type OrderCreatedEvent struct {
	Type        string      `json:"type"`
	OrderID     uuid.UUID   `json:"order_id"`
	BuyerID     uuid.UUID   `json:"buyer_id"`
	OrderNumber string      `json:"order_number"`
	VendorIDs   []uuid.UUID `json:"vendor_ids"`
	TotalCents  int64       `json:"total_cents"`
	CreatedAt   time.Time   `json:"created_at"`
}
