package realtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"vendora/internal/pkg/config"
)

// Manager owns at most one live subscription per channel name and keeps each
// one alive across transient transport failures. It is an injected dependency,
// not a process-global: independent consumers get independent managers.
type Manager struct {
	feed        Feed
	logger      *slog.Logger
	retryBudget int
	backoffBase time.Duration

	mu   sync.Mutex
	subs map[string]*subscription
}

type subscription struct {
	name    string
	cfg     ChannelConfig
	channel *Channel

	stop     chan struct{}
	stopOnce sync.Once

	mu      sync.Mutex
	conn    Conn
	retries int
}

func NewManager(feed Feed, cfg config.RealtimeConfig, logger *slog.Logger) *Manager {
	budget := cfg.RetryBudget
	if budget <= 0 {
		budget = 3
	}
	base := cfg.BackoffBase
	if base <= 0 {
		base = 2 * time.Second
	}
	return &Manager{
		feed:        feed,
		logger:      logger,
		retryBudget: budget,
		backoffBase: base,
		subs:        make(map[string]*subscription),
	}
}

// Get returns the channel handle for name, creating the underlying
// subscription if none is live. A second call for the same name while the
// first is still connecting (or already joined) returns the same handle and
// opens no second physical stream. A stale entry is torn down first.
func (m *Manager) Get(name string, cfg ChannelConfig) *Channel {
	m.mu.Lock()
	// Teardown of a stale entry drops the lock, so re-check afterwards: a
	// concurrent Get may have installed a live subscription in the window.
	for {
		s, ok := m.subs[name]
		if !ok {
			break
		}
		switch s.channel.State() {
		case StateConnecting, StateJoined:
			m.mu.Unlock()
			return s.channel
		default:
			// Stale: tear down before opening fresh.
			delete(m.subs, name)
			m.mu.Unlock()
			s.teardown(context.Background(), m.logger)
			m.mu.Lock()
		}
	}

	s := &subscription{
		name:    name,
		cfg:     cfg,
		channel: newChannel(name),
		stop:    make(chan struct{}),
	}
	m.subs[name] = s
	m.mu.Unlock()

	go m.supervise(s)
	return s.channel
}

// Remove idempotently tears down and forgets any tracked subscription for
// name. Safe to call when nothing is tracked.
func (m *Manager) Remove(ctx context.Context, name string) {
	m.mu.Lock()
	s, ok := m.subs[name]
	if ok {
		delete(m.subs, name)
	}
	m.mu.Unlock()

	if ok {
		s.teardown(ctx, m.logger)
	}
}

// RemoveAll tears down every tracked subscription; called at the end of the
// owner's lifecycle so no streams are leaked.
func (m *Manager) RemoveAll(ctx context.Context) {
	m.mu.Lock()
	subs := make([]*subscription, 0, len(m.subs))
	for name, s := range m.subs {
		subs = append(subs, s)
		delete(m.subs, name)
	}
	m.mu.Unlock()

	for _, s := range subs {
		s.teardown(ctx, m.logger)
	}
}

// supervise is the bounded reconnect loop for one subscription: open, pump
// until the stream dies, back off, repeat. A loop rather than recursion keeps
// the stack flat over a long process lifetime.
func (m *Manager) supervise(s *subscription) {
	for {
		var last Status
		conn, err := m.feed.Open(context.Background(), s.name)
		if err != nil {
			m.logger.Warn("channel open failed", "channel", s.name, "error", err.Error())
			s.channel.setState(StateErrored)
			last = StatusErrored
		} else {
			s.setConn(conn)
			last = m.pump(s, conn)
			s.setConn(nil)
		}

		select {
		case <-s.stop:
			return
		default:
		}

		s.mu.Lock()
		s.retries++
		retries := s.retries
		s.mu.Unlock()

		if retries >= m.retryBudget {
			m.mu.Lock()
			// Forget only if we are still the tracked subscription.
			if cur, ok := m.subs[s.name]; ok && cur == s {
				delete(m.subs, s.name)
			}
			m.mu.Unlock()

			s.channel.setState(StateClosed)
			s.channel.closeListeners()
			m.logger.Error("channel retry budget exhausted",
				"channel", s.name,
				"attempts", retries,
				"status", string(last))
			if s.cfg.OnError != nil {
				s.cfg.OnError(last)
			}
			return
		}

		delay := m.backoffBase << (retries - 1)
		m.logger.Warn("channel reconnecting",
			"channel", s.name,
			"attempt", retries,
			"wait", delay.String(),
			"status", string(last))

		select {
		case <-s.stop:
			return
		case <-time.After(delay):
		}
		s.channel.setState(StateConnecting)
	}
}

// pump delivers events and tracks status transitions for one physical stream,
// returning the status that ended it.
func (m *Manager) pump(s *subscription, conn Conn) Status {
	events := conn.Events()
	statuses := conn.Status()

	for {
		select {
		case <-s.stop:
			closeConn(context.Background(), conn, m.logger, s.name)
			return StatusClosed

		case st, ok := <-statuses:
			if !ok {
				closeConn(context.Background(), conn, m.logger, s.name)
				return StatusClosed
			}
			if st == StatusJoined {
				s.mu.Lock()
				s.retries = 0
				s.mu.Unlock()
				s.channel.setState(StateJoined)
				if s.cfg.OnSubscribed != nil {
					s.cfg.OnSubscribed()
				}
				continue
			}
			s.channel.setState(StateErrored)
			closeConn(context.Background(), conn, m.logger, s.name)
			return st

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if s.cfg.OnEvent != nil {
				s.cfg.OnEvent(ev)
			}
			s.channel.dispatch(ev)
		}
	}
}

func (s *subscription) setConn(conn Conn) {
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
}

// teardown stops the supervisor and closes any live stream. It never
// propagates transport errors: it runs on cleanup paths where failures are
// not actionable.
func (s *subscription) teardown(ctx context.Context, logger *slog.Logger) {
	s.stopOnce.Do(func() {
		close(s.stop)
	})

	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	if conn != nil {
		closeConn(ctx, conn, logger, s.name)
	}

	s.channel.setState(StateClosed)
	s.channel.closeListeners()
}

func closeConn(ctx context.Context, conn Conn, logger *slog.Logger, name string) {
	if err := conn.Close(ctx); err != nil {
		logger.Warn("channel close failed", "channel", name, "error", err.Error())
	}
}
