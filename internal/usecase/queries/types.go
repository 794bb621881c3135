package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type ProductView struct {
	ID                 uuid.UUID `json:"id"`
	VendorID           uuid.UUID `json:"vendor_id"`
	Name               string    `json:"name"`
	SKU                *string   `json:"sku,omitempty"`
	ImageURL           *string   `json:"image_url,omitempty"`
	PriceCents         int64     `json:"price_cents"`
	StockQuantity      int32     `json:"stock_quantity"`
	IsActive           bool      `json:"is_active"`
	VerificationStatus string    `json:"verification_status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type OrderLineView struct {
	ProductID       uuid.UUID  `json:"product_id"`
	ProductName     string     `json:"product_name"`
	Quantity        int32      `json:"quantity"`
	UnitPriceCents  int64      `json:"unit_price_cents"`
	TotalPriceCents int64      `json:"total_price_cents"`
	SKU             *string    `json:"sku,omitempty"`
	VendorID        *uuid.UUID `json:"vendor_id,omitempty"`
}

type OrderView struct {
	ID                 uuid.UUID       `json:"id"`
	BuyerID            uuid.UUID       `json:"buyer_id"`
	OrderNumber        string          `json:"order_number"`
	Lines              []OrderLineView `json:"lines"`
	SubtotalCents      int64           `json:"subtotal_cents"`
	ShippingCents      int64           `json:"shipping_cents"`
	TaxCents           int64           `json:"tax_cents"`
	TotalCents         int64           `json:"total_cents"`
	Status             string          `json:"status"`
	PaymentStatus      string          `json:"payment_status"`
	VerificationStatus string          `json:"verification_status"`
	CreatedAt          time.Time       `json:"created_at"`
}

type OrderListItem struct {
	ID          uuid.UUID `json:"id"`
	OrderNumber string    `json:"order_number"`
	TotalCents  int64     `json:"total_cents"`
	Status      string    `json:"status"`
	LineCount   int32     `json:"line_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type AuthorizedUserView struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
}
