package repository

import (
	"context"

	"vendora/internal/domain/product"
	"vendora/internal/infra"
	"vendora/internal/infra/db"
	"vendora/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

const snapshotByIDSQL = `
SELECT id, vendor_id, name, sku, image_url, price_cents, stock_quantity, is_active, verification_status
FROM products
WHERE id = $1`

func (r *ProductRepository) SnapshotByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*product.Snapshot, error) {
	var (
		snap     product.Snapshot
		sku      pgtype.Text
		imageURL pgtype.Text
		status   string
	)

	row := dbtx.QueryRow(ctx, snapshotByIDSQL, id)
	err := row.Scan(
		&snap.ID,
		&snap.VendorID,
		&snap.Name,
		&sku,
		&imageURL,
		&snap.PriceCents,
		&snap.StockQuantity,
		&snap.IsActive,
		&status,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read product snapshot", err)
	}

	snap.SKU = pgconv.StringPtrFromPgtype(sku)
	snap.ImageURL = pgconv.StringPtrFromPgtype(imageURL)
	snap.VerificationStatus = product.VerificationStatus(status)

	return &snap, nil
}

const decrementStockSQL = `
UPDATE products
SET stock_quantity = stock_quantity - $2, updated_at = now()
WHERE id = $1 AND stock_quantity >= $2`

// DecrementStock is the conditional server-side decrement: the WHERE guard
// makes concurrent over-sells impossible. Zero rows affected means the stock
// observed during validation is gone.
func (r *ProductRepository) DecrementStock(ctx context.Context, dbtx db.DBTX, id uuid.UUID, quantity int32) error {
	tag, err := dbtx.Exec(ctx, decrementStockSQL, id, quantity)
	if err != nil {
		return infra.WrapRepoErr("failed to decrement stock", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("insufficient stock", nil, infra.KindConflict)
	}
	return nil
}
