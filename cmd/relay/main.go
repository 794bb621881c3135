package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"vendora/internal/infra/db"
	"vendora/internal/infra/events"
	"vendora/internal/infra/feed"
	"vendora/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The relay drains order events from Kafka and republishes them as
// LISTEN/NOTIFY change envelopes, so SSE subscribers see row changes without
// touching the broker themselves.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", "error", err.Error())
		os.Exit(1)
	}

	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		logger.Error("failed to connect to database", "error", err.Error())
		os.Exit(1)
	}
	defer cleanup()

	consumer := events.NewConsumer(cfg.Kafka, logger)
	defer func() {
		if err := consumer.Close(); err != nil {
			logger.Warn("failed to close consumer", "error", err.Error())
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("relay started",
		"topic", cfg.Kafka.OrderTopic,
		"group", cfg.Kafka.GroupID,
		"channel", feed.OrdersChannel)

	err = consumer.Consume(ctx, func(ctx context.Context, key, value []byte) error {
		return relayMessage(ctx, pool, logger, key, value)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("relay stopped with error", "error", err.Error())
		os.Exit(1)
	}

	logger.Info("relay stopped")
}

func relayMessage(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger, key, value []byte) error {
	var event events.OrderCreatedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		// Unknown message shape: log and drop, never wedge the partition.
		logger.Warn("skipping undecodable message", "key", string(key), "error", err.Error())
		return nil
	}

	op := "INSERT"
	if event.Type != events.TypeOrderCreated {
		op = "UPDATE"
	}

	return feed.Notify(ctx, pool, feed.OrdersChannel, "orders", op, value)
}
