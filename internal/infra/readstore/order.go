package readstore

import (
	"context"
	"encoding/json"

	"vendora/internal/infra"
	"vendora/internal/infra/db"
	"vendora/internal/pkg/pgconv"
	"vendora/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type OrderReadStore struct {
	pool db.DBTX
}

func NewOrderReadStore(pool db.DBTX) *OrderReadStore {
	return &OrderReadStore{pool: pool}
}

const getOrderByIDSQL = `
SELECT id, buyer_id, order_number, lines,
       subtotal_cents, shipping_cents, tax_cents, total_cents,
       status, payment_status, verification_status, created_at
FROM orders
WHERE id = $1`

func (r *OrderReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.OrderView, error) {
	var (
		view      queries.OrderView
		lines     []byte
		createdAt pgtype.Timestamptz
	)

	row := r.pool.QueryRow(ctx, getOrderByIDSQL, id)
	err := row.Scan(
		&view.ID,
		&view.BuyerID,
		&view.OrderNumber,
		&lines,
		&view.SubtotalCents,
		&view.ShippingCents,
		&view.TaxCents,
		&view.TotalCents,
		&view.Status,
		&view.PaymentStatus,
		&view.VerificationStatus,
		&createdAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order by ID", err)
	}

	if err := json.Unmarshal(lines, &view.Lines); err != nil {
		return nil, infra.WrapRepoErr("failed to decode order lines", err)
	}
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)

	return &view, nil
}

const listOrdersByBuyerSQL = `
SELECT id, order_number, total_cents, status, jsonb_array_length(lines), created_at
FROM orders
WHERE buyer_id = $1
ORDER BY created_at DESC
LIMIT $2`

func (r *OrderReadStore) FindByBuyerID(ctx context.Context, buyerID uuid.UUID, limit int32) ([]*queries.OrderListItem, error) {
	rows, err := r.pool.Query(ctx, listOrdersByBuyerSQL, buyerID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list orders", err)
	}
	defer rows.Close()

	var result []*queries.OrderListItem
	for rows.Next() {
		var (
			item      queries.OrderListItem
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&item.ID, &item.OrderNumber, &item.TotalCents, &item.Status, &item.LineCount, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order row", err)
		}
		item.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order rows", err)
	}

	return result, nil
}
