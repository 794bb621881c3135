package repository

import (
	"context"
	"encoding/json"
	"errors"

	"vendora/internal/domain/order"
	"vendora/internal/infra"
	"vendora/internal/infra/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgErrCodeUniqueViolation = "23505"

type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

const createOrderSQL = `
INSERT INTO orders (
	id, buyer_id, order_number, lines,
	subtotal_cents, shipping_cents, tax_cents, total_cents,
	status, payment_status, verification_status, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

func (r *OrderRepository) Create(ctx context.Context, dbtx db.DBTX, o *order.Order) error {
	lines, err := json.Marshal(o.Lines())
	if err != nil {
		return infra.WrapRepoErr("failed to encode order lines", err)
	}

	totals := o.Totals()
	_, err = dbtx.Exec(ctx, createOrderSQL,
		o.ID(),
		o.BuyerID(),
		o.OrderNumber(),
		lines,
		totals.SubtotalCents,
		totals.ShippingCents,
		totals.TaxCents,
		totals.TotalCents,
		string(o.Status()),
		string(o.PaymentStatus()),
		string(o.VerificationStatus()),
		o.CreatedAt(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation {
			return infra.WrapRepoErr("order number collision", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create order", err)
	}

	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
