package components

import (
	"vendora/internal/pkg/clock"
	"vendora/internal/pkg/jwt"
	"vendora/internal/usecase"
	"vendora/internal/usecase/commands"
	"vendora/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		fx.Annotate(
			NewTokenIssuer,
			fx.As(new(commands.TokenIssuer)),
		),
		commands.NewAuthCommands,
		commands.NewCheckoutCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewOrderQueries,
		queries.NewProductQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewTokenIssuer(jwtService *jwt.Service) *jwt.Service {
	return jwtService
}
