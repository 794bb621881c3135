package feed

import (
	"context"
	"encoding/json"

	"vendora/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OrdersChannel carries order row changes; the relay publishes on it and the
// SSE stream subscribes to it.
const OrdersChannel = "orders_feed"

// Notify publishes one change envelope on a named channel. The relay worker
// uses this to fan Kafka events into LISTEN/NOTIFY subscribers.
func Notify(ctx context.Context, pool *pgxpool.Pool, channel, table, op string, payload json.RawMessage) error {
	env := notifyEnvelope{Table: table, Op: op, Payload: payload}
	body, err := json.Marshal(env)
	if err != nil {
		return errs.Wrap(err, "failed to encode notify envelope")
	}

	if _, err := pool.Exec(ctx, "SELECT pg_notify($1, $2)", channel, string(body)); err != nil {
		return errs.Wrap(err, "failed to notify channel")
	}
	return nil
}
