package bootstrap

import (
	"vendora/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	EventsModule,
	RealtimeModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
)
