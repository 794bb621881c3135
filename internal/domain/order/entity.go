package order

import (
	"errors"
	"time"

	"vendora/internal/domain/cart"

	"github.com/google/uuid"
)

var (
	ErrNoLines          = errors.New("order must contain at least one line")
	ErrSubtotalMismatch = errors.New("subtotal does not match line totals")
	ErrTotalMismatch    = errors.New("total does not match subtotal, shipping and tax")
	ErrNegativeAmount   = errors.New("amounts cannot be negative")
)

// Line is one priced item inside an order. Lines are embedded in the order
// record and immutable after creation.
type Line struct {
	ProductID       uuid.UUID  `json:"product_id"`
	ProductName     string     `json:"product_name"`
	Quantity        int32      `json:"quantity"`
	UnitPriceCents  int64      `json:"unit_price_cents"`
	TotalPriceCents int64      `json:"total_price_cents"`
	SKU             *string    `json:"sku,omitempty"`
	VendorID        *uuid.UUID `json:"vendor_id,omitempty"`
}

type Totals struct {
	SubtotalCents int64
	ShippingCents int64
	TaxCents      int64
	TotalCents    int64
}

type Order struct {
	id                 uuid.UUID
	buyerID            uuid.UUID
	orderNumber        string
	lines              []Line
	totals             Totals
	status             Status
	paymentStatus      PaymentStatus
	verificationStatus VerificationStatus
	createdAt          time.Time
}

// NewOrder builds a pending order from validated cart lines. Lines are priced
// at the cart-snapshotted unit price; the totals supplied by the client must
// be consistent with them.
func NewOrder(buyerID uuid.UUID, lines []cart.Line, totals Totals, now time.Time) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrNoLines
	}
	if totals.SubtotalCents < 0 || totals.ShippingCents < 0 || totals.TaxCents < 0 || totals.TotalCents < 0 {
		return nil, ErrNegativeAmount
	}

	orderLines := make([]Line, len(lines))
	var lineSum int64
	for i, l := range lines {
		orderLines[i] = Line{
			ProductID:       l.ProductID(),
			ProductName:     l.DisplayName(),
			Quantity:        l.Quantity(),
			UnitPriceCents:  l.UnitPriceCents(),
			TotalPriceCents: l.TotalCents(),
			SKU:             l.SKU(),
			VendorID:        l.VendorID(),
		}
		lineSum += l.TotalCents()
	}

	if totals.SubtotalCents != lineSum {
		return nil, ErrSubtotalMismatch
	}
	if totals.TotalCents != totals.SubtotalCents+totals.ShippingCents+totals.TaxCents {
		return nil, ErrTotalMismatch
	}

	return &Order{
		id:                 uuid.New(),
		buyerID:            buyerID,
		orderNumber:        NewOrderNumber(now),
		lines:              orderLines,
		totals:             totals,
		status:             StatusPending,
		paymentStatus:      PaymentPending,
		verificationStatus: VerificationPending,
		createdAt:          now,
	}, nil
}

func ReconstructOrder(
	id, buyerID uuid.UUID,
	orderNumber string,
	lines []Line,
	totals Totals,
	status Status,
	paymentStatus PaymentStatus,
	verificationStatus VerificationStatus,
	createdAt time.Time,
) *Order {
	return &Order{
		id:                 id,
		buyerID:            buyerID,
		orderNumber:        orderNumber,
		lines:              lines,
		totals:             totals,
		status:             status,
		paymentStatus:      paymentStatus,
		verificationStatus: verificationStatus,
		createdAt:          createdAt,
	}
}

func (o *Order) ID() uuid.UUID                          { return o.id }
func (o *Order) BuyerID() uuid.UUID                     { return o.buyerID }
func (o *Order) OrderNumber() string                    { return o.orderNumber }
func (o *Order) Totals() Totals                         { return o.totals }
func (o *Order) Status() Status                         { return o.status }
func (o *Order) PaymentStatus() PaymentStatus           { return o.paymentStatus }
func (o *Order) VerificationStatus() VerificationStatus { return o.verificationStatus }
func (o *Order) CreatedAt() time.Time                   { return o.createdAt }

// Lines returns a copy so callers cannot mutate the embedded lines.
func (o *Order) Lines() []Line {
	out := make([]Line, len(o.lines))
	copy(out, o.lines)
	return out
}
