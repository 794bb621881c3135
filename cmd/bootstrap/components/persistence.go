package components

import (
	"vendora/internal/infra/db"
	"vendora/internal/infra/readstore"
	"vendora/internal/infra/repository"
	"vendora/internal/infra/uow"
	"vendora/internal/usecase/commands"
	"vendora/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		// UnitOfWork
		uow.NewPostgresUoW,
		// Write side
		fx.Annotate(
			repository.NewUserRepository,
			fx.As(new(commands.UserFinder)),
		),
		// Read side
		fx.Annotate(
			readstore.NewOrderReadStore,
			fx.As(new(queries.OrderViewRepo)),
		),
		fx.Annotate(
			readstore.NewProductReadStore,
			fx.As(new(queries.ProductViewRepo)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
