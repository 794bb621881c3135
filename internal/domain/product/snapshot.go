package product

import (
	"github.com/google/uuid"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// Snapshot is a fresh read of a product's availability, price and status,
// taken at validation time. It is never written through.
type Snapshot struct {
	ID                 uuid.UUID
	VendorID           uuid.UUID
	Name               string
	SKU                *string
	ImageURL           *string
	PriceCents         int64
	StockQuantity      int32
	IsActive           bool
	VerificationStatus VerificationStatus
}

// Purchasable reports whether the product may appear in a new order at all,
// independent of stock level.
func (s *Snapshot) Purchasable() bool {
	return s.IsActive && s.VerificationStatus == VerificationApproved
}

func (s *Snapshot) HasStock(quantity int32) bool {
	return s.StockQuantity >= quantity
}
