package queries

import (
	"context"

	"vendora/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrOrderAccessDenied = errs.New("order does not belong to the requesting buyer")

type OrderQueries interface {
	// GetByIDSystem skips the ownership check; for internal callers that
	// already know the order is theirs to read.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*OrderView, error)
	GetForBuyer(ctx context.Context, buyerID uuid.UUID, id uuid.UUID) (*OrderView, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit int) ([]*OrderListItem, error)
}

type OrderViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OrderView, error)
	FindByBuyerID(ctx context.Context, buyerID uuid.UUID, limit int32) ([]*OrderListItem, error)
}

type orderQueriesImpl struct {
	repo OrderViewRepo
}

func NewOrderQueries(repo OrderViewRepo) OrderQueries {
	return &orderQueriesImpl{repo: repo}
}

func (q *orderQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	return q.repo.FindByID(ctx, id)
}

func (q *orderQueriesImpl) GetForBuyer(ctx context.Context, buyerID uuid.UUID, id uuid.UUID) (*OrderView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if view.BuyerID != buyerID {
		return nil, ErrOrderAccessDenied
	}
	return view, nil
}

func (q *orderQueriesImpl) ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit int) ([]*OrderListItem, error) {
	if limit <= 0 {
		limit = 50
	}
	return q.repo.FindByBuyerID(ctx, buyerID, int32(limit))
}
