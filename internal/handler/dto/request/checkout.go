package request

import (
	"vendora/internal/domain/cart"
	"vendora/internal/domain/order"

	"github.com/google/uuid"
)

type CheckoutLine struct {
	ProductID      uuid.UUID  `json:"product_id" binding:"required"`
	Quantity       int32      `json:"quantity" binding:"required,min=1"`
	UnitPriceCents int64      `json:"unit_price_cents" binding:"min=0"`
	DisplayName    string     `json:"display_name" binding:"required"`
	ImageURL       *string    `json:"image_url,omitempty"`
	SKU            *string    `json:"sku,omitempty"`
	VendorID       *uuid.UUID `json:"vendor_id,omitempty"`
}

type CheckoutRequest struct {
	// An empty cart is a valid request shape; the usecase rejects it with a
	// structured "no valid items" result rather than a binding error.
	Lines         []CheckoutLine `json:"lines" binding:"dive"`
	SubtotalCents int64          `json:"subtotal_cents" binding:"min=0"`
	ShippingCents int64          `json:"shipping_cents" binding:"min=0"`
	TaxCents      int64          `json:"tax_cents" binding:"min=0"`
	TotalCents    int64          `json:"total_cents" binding:"min=0"`
}

func (r CheckoutRequest) ToCartLines() ([]cart.Line, error) {
	lines := make([]cart.Line, 0, len(r.Lines))
	for _, l := range r.Lines {
		line, err := cart.NewLine(l.ProductID, l.Quantity, l.UnitPriceCents, l.DisplayName, l.ImageURL, l.SKU, l.VendorID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (r CheckoutRequest) ToTotals() order.Totals {
	return order.Totals{
		SubtotalCents: r.SubtotalCents,
		ShippingCents: r.ShippingCents,
		TaxCents:      r.TaxCents,
		TotalCents:    r.TotalCents,
	}
}
