package response

import (
	"time"

	"vendora/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type OrderLineResponse struct {
	ProductID       uuid.UUID  `json:"productId"`
	ProductName     string     `json:"productName"`
	Quantity        int32      `json:"quantity"`
	UnitPriceCents  int64      `json:"unitPriceCents"`
	TotalPriceCents int64      `json:"totalPriceCents"`
	SKU             *string    `json:"sku,omitempty"`
	VendorID        *uuid.UUID `json:"vendorId,omitempty"`
}

type OrderResponse struct {
	ID                 uuid.UUID           `json:"id"`
	BuyerID            uuid.UUID           `json:"buyerId"`
	OrderNumber        string              `json:"orderNumber"`
	Lines              []OrderLineResponse `json:"lines"`
	SubtotalCents      int64               `json:"subtotalCents"`
	ShippingCents      int64               `json:"shippingCents"`
	TaxCents           int64               `json:"taxCents"`
	TotalCents         int64               `json:"totalCents"`
	Status             string              `json:"status"`
	PaymentStatus      string              `json:"paymentStatus"`
	VerificationStatus string              `json:"verificationStatus"`
	CreatedAt          time.Time           `json:"createdAt"`
}

type OrderListResponse struct {
	ID          uuid.UUID `json:"id"`
	OrderNumber string    `json:"orderNumber"`
	TotalCents  int64     `json:"totalCents"`
	Status      string    `json:"status"`
	LineCount   int32     `json:"lineCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

func FromOrderView(rm *queries.OrderView) (*OrderResponse, error) {
	var resp OrderResponse
	if err := copier.Copy(&resp, rm); err != nil {
		return nil, err
	}
	return &resp, nil
}

func FromOrderListItem(rm *queries.OrderListItem) (*OrderListResponse, error) {
	var resp OrderListResponse
	if err := copier.Copy(&resp, rm); err != nil {
		return nil, err
	}
	return &resp, nil
}
