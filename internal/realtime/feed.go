package realtime

import (
	"context"
	"encoding/json"
)

// Status mirrors the connection-state transitions reported by a change-feed
// transport.
type Status string

const (
	StatusJoined   Status = "joined"
	StatusErrored  Status = "errored"
	StatusTimedOut Status = "timed-out"
	StatusClosed   Status = "closed"
)

// ChangeEvent is one row-change notification delivered on a named channel.
type ChangeEvent struct {
	Channel string          `json:"channel"`
	Table   string          `json:"table"`
	Op      string          `json:"op"`
	Payload json.RawMessage `json:"payload"`
}

// Conn is a single physical stream to the change-feed endpoint. Events and
// Status both close when the stream dies; Status reports the transitions the
// manager supervises on.
type Conn interface {
	Events() <-chan ChangeEvent
	Status() <-chan Status
	Close(ctx context.Context) error
}

// Feed opens named streams. Implementations: Postgres LISTEN/NOTIFY (infra/feed).
type Feed interface {
	Open(ctx context.Context, name string) (Conn, error)
}
