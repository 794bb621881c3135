package shared

import (
	"context"

	"vendora/internal/domain/order"
	"vendora/internal/domain/product"
	"vendora/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// Reads: Direct access for validation reads outside transactions
	Reads() CommandReads
}

type Tx interface {
	Orders() OrderRepository
	Products() ProductRepository
	DB() db.DBTX
}

// CommandReads serves the fresh per-line snapshot reads checkout performs
// before opening its write transaction.
type CommandReads interface {
	ProductSnapshotByID(ctx context.Context, id uuid.UUID) (*product.Snapshot, error)
}

type OrderRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, o *order.Order) error
}

type ProductRepository interface {
	SnapshotByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*product.Snapshot, error)
	// DecrementStock conditionally subtracts quantity from the product's stock
	// and fails with a conflict when stock has fallen below quantity.
	DecrementStock(ctx context.Context, dbtx db.DBTX, id uuid.UUID, quantity int32) error
}
