package cart

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrInvalidUnitPrice = errors.New("unit price cannot be negative")
	ErrMissingName      = errors.New("display name is required")
)

// PriceDriftTolerancePercent bounds how far the live price may drift from the
// price snapshotted into the cart before the line is rejected at checkout.
// Drift of exactly this much is still accepted.
const PriceDriftTolerancePercent = 10

// Line is one product/quantity pairing held client-side before checkout.
// The unit price is the price the shopper saw when adding the product, not
// necessarily the live price.
type Line struct {
	productID      uuid.UUID
	quantity       int32
	unitPriceCents int64
	displayName    string
	imageURL       *string
	sku            *string
	vendorID       *uuid.UUID
}

func NewLine(
	productID uuid.UUID,
	quantity int32,
	unitPriceCents int64,
	displayName string,
	imageURL *string,
	sku *string,
	vendorID *uuid.UUID,
) (Line, error) {
	if quantity < 1 {
		return Line{}, ErrInvalidQuantity
	}
	if unitPriceCents < 0 {
		return Line{}, ErrInvalidUnitPrice
	}
	if displayName == "" {
		return Line{}, ErrMissingName
	}
	return Line{
		productID:      productID,
		quantity:       quantity,
		unitPriceCents: unitPriceCents,
		displayName:    displayName,
		imageURL:       imageURL,
		sku:            sku,
		vendorID:       vendorID,
	}, nil
}

func (l Line) ProductID() uuid.UUID   { return l.productID }
func (l Line) Quantity() int32        { return l.quantity }
func (l Line) UnitPriceCents() int64  { return l.unitPriceCents }
func (l Line) DisplayName() string    { return l.displayName }
func (l Line) ImageURL() *string      { return l.imageURL }
func (l Line) SKU() *string           { return l.sku }
func (l Line) VendorID() *uuid.UUID   { return l.vendorID }

func (l Line) TotalCents() int64 {
	return l.unitPriceCents * int64(l.quantity)
}

// PriceDriftExceeded reports whether livePriceCents has drifted from the
// snapshotted unit price by more than the tolerance, relative to the snapshot.
// Integer arithmetic keeps the boundary exact: 10.0% drift is accepted,
// anything beyond is not.
func (l Line) PriceDriftExceeded(livePriceCents int64) bool {
	if l.unitPriceCents == 0 {
		return livePriceCents != 0
	}
	diff := livePriceCents - l.unitPriceCents
	if diff < 0 {
		diff = -diff
	}
	return diff*100 > l.unitPriceCents*PriceDriftTolerancePercent
}
