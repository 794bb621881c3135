package bootstrap

import (
	"context"
	"log/slog"

	"vendora/internal/infra/feed"
	"vendora/internal/pkg/config"
	"vendora/internal/realtime"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RealtimeModule = fx.Module("realtime",
	fx.Provide(
		fx.Annotate(
			NewFeed,
			fx.As(new(realtime.Feed)),
		),
		NewRealtimeManager,
	),
)

func NewFeed(pool *pgxpool.Pool) *feed.PgFeed {
	return feed.NewPgFeed(pool)
}

func NewRealtimeManager(lc fx.Lifecycle, f realtime.Feed, cfg config.Config, logger *slog.Logger) *realtime.Manager {
	manager := realtime.NewManager(f, cfg.Realtime, logger)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			manager.RemoveAll(ctx)
			return nil
		},
	})

	return manager
}
