package components

import (
	"vendora/internal/handler"
	"vendora/internal/handler/api"
	"vendora/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewCheckoutHandler,
		api.NewOrderHandler,
		api.NewProductHandler,
		api.NewStreamHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
