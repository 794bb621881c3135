package readstore

import (
	"context"

	"vendora/internal/infra"
	"vendora/internal/infra/db"
	"vendora/internal/pkg/pgconv"
	"vendora/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ProductReadStore struct {
	pool db.DBTX
}

func NewProductReadStore(pool db.DBTX) *ProductReadStore {
	return &ProductReadStore{pool: pool}
}

const productColumns = `
id, vendor_id, name, sku, image_url, price_cents, stock_quantity,
is_active, verification_status, created_at, updated_at`

const getProductByIDSQL = `
SELECT ` + productColumns + `
FROM products
WHERE id = $1`

func (r *ProductReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ProductView, error) {
	row := r.pool.QueryRow(ctx, getProductByIDSQL, id)
	view, err := scanProductView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find product by ID", err)
	}
	return view, nil
}

const listStorefrontProductsSQL = `
SELECT ` + productColumns + `
FROM products
WHERE is_active = true AND verification_status = 'approved'
ORDER BY created_at DESC
LIMIT $1`

// ListStorefront returns only products a shopper may buy: active and approved.
func (r *ProductReadStore) ListStorefront(ctx context.Context, limit int32) ([]*queries.ProductView, error) {
	rows, err := r.pool.Query(ctx, listStorefrontProductsSQL, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list products", err)
	}
	defer rows.Close()

	var result []*queries.ProductView
	for rows.Next() {
		view, err := scanProductView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan product row", err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate product rows", err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProductView(row rowScanner) (*queries.ProductView, error) {
	var (
		view      queries.ProductView
		sku       pgtype.Text
		imageURL  pgtype.Text
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&view.ID,
		&view.VendorID,
		&view.Name,
		&sku,
		&imageURL,
		&view.PriceCents,
		&view.StockQuantity,
		&view.IsActive,
		&view.VerificationStatus,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	view.SKU = pgconv.StringPtrFromPgtype(sku)
	view.ImageURL = pgconv.StringPtrFromPgtype(imageURL)
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)

	return &view, nil
}
