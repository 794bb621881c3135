package bootstrap

import (
	"context"

	"vendora/internal/infra/events"
	"vendora/internal/pkg/config"
	"vendora/internal/usecase/commands"

	"go.uber.org/fx"
)

var EventsModule = fx.Module("events",
	fx.Provide(
		fx.Annotate(
			NewProducer,
			fx.As(new(commands.OrderEventPublisher)),
		),
	),
)

func NewProducer(lc fx.Lifecycle, cfg config.Config) *events.Producer {
	producer := events.NewProducer(cfg.Kafka)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return producer.Close()
		},
	})

	return producer
}
