package feed

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"vendora/internal/pkg/errs"
	"vendora/internal/realtime"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgFeed opens realtime streams over Postgres LISTEN/NOTIFY. Each open channel
// pins one pooled connection for the lifetime of the stream.
type PgFeed struct {
	pool *pgxpool.Pool
}

func NewPgFeed(pool *pgxpool.Pool) *PgFeed {
	return &PgFeed{pool: pool}
}

func (f *PgFeed) Open(ctx context.Context, name string) (realtime.Conn, error) {
	pooled, err := f.pool.Acquire(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "failed to acquire listen connection")
	}

	// Sanitize keeps arbitrary channel names (e.g. "orders:vendor-id") safe to
	// interpolate; LISTEN takes no bind parameters.
	if _, err := pooled.Exec(ctx, "LISTEN "+pgx.Identifier{name}.Sanitize()); err != nil {
		pooled.Release()
		return nil, errs.Wrap(err, "failed to listen on channel")
	}

	runCtx, cancel := context.WithCancel(context.Background())
	c := &pgConn{
		name:    name,
		pooled:  pooled,
		events:  make(chan realtime.ChangeEvent, 64),
		status:  make(chan realtime.Status, 4),
		cancel:  cancel,
	}
	go c.run(runCtx)

	return c, nil
}

type pgConn struct {
	name   string
	pooled *pgxpool.Conn
	events chan realtime.ChangeEvent
	status chan realtime.Status
	cancel context.CancelFunc
	once   sync.Once
}

// notifyEnvelope is the JSON shape the relay publishes via pg_notify.
type notifyEnvelope struct {
	Table   string          `json:"table"`
	Op      string          `json:"op"`
	Payload json.RawMessage `json:"payload"`
}

func (c *pgConn) run(ctx context.Context) {
	defer func() {
		close(c.events)
		close(c.status)
		c.pooled.Release()
	}()

	c.status <- realtime.StatusJoined

	for {
		notification, err := c.pooled.Conn().WaitForNotification(ctx)
		if err != nil {
			switch {
			case ctx.Err() != nil:
				c.status <- realtime.StatusClosed
			case errors.Is(err, context.DeadlineExceeded):
				c.status <- realtime.StatusTimedOut
			default:
				c.status <- realtime.StatusErrored
			}
			return
		}

		ev := realtime.ChangeEvent{Channel: c.name}
		var env notifyEnvelope
		if err := json.Unmarshal([]byte(notification.Payload), &env); err == nil {
			ev.Table = env.Table
			ev.Op = env.Op
			ev.Payload = env.Payload
		} else {
			// Not our envelope; deliver the raw payload untouched.
			ev.Payload = json.RawMessage(notification.Payload)
		}

		select {
		case c.events <- ev:
		case <-ctx.Done():
			c.status <- realtime.StatusClosed
			return
		}
	}
}

func (c *pgConn) Events() <-chan realtime.ChangeEvent {
	return c.events
}

func (c *pgConn) Status() <-chan realtime.Status {
	return c.status
}

func (c *pgConn) Close(_ context.Context) error {
	c.once.Do(c.cancel)
	return nil
}
