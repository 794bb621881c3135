package response

import (
	"time"

	"vendora/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ProductResponse struct {
	ID                 uuid.UUID `json:"id"`
	VendorID           uuid.UUID `json:"vendorId"`
	Name               string    `json:"name"`
	SKU                *string   `json:"sku,omitempty"`
	ImageURL           *string   `json:"imageUrl,omitempty"`
	PriceCents         int64     `json:"priceCents"`
	StockQuantity      int32     `json:"stockQuantity"`
	IsActive           bool      `json:"isActive"`
	VerificationStatus string    `json:"verificationStatus"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func FromProductView(rm *queries.ProductView) (*ProductResponse, error) {
	var resp ProductResponse
	if err := copier.Copy(&resp, rm); err != nil {
		return nil, err
	}
	return &resp, nil
}
