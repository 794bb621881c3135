package queries

import (
	"context"

	"github.com/google/uuid"
)

type ProductQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ProductView, error)
	ListStorefront(ctx context.Context, limit int) ([]*ProductView, error)
}

type ProductViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductView, error)
	ListStorefront(ctx context.Context, limit int32) ([]*ProductView, error)
}

type productQueriesImpl struct {
	repo ProductViewRepo
}

func NewProductQueries(repo ProductViewRepo) ProductQueries {
	return &productQueriesImpl{repo: repo}
}

func (q *productQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	return q.repo.FindByID(ctx, id)
}

func (q *productQueriesImpl) ListStorefront(ctx context.Context, limit int) ([]*ProductView, error) {
	if limit <= 0 {
		limit = 50
	}
	return q.repo.ListStorefront(ctx, int32(limit))
}
