package realtime

import "sync"

type State string

const (
	StateConnecting State = "connecting"
	StateJoined     State = "joined"
	StateErrored    State = "errored"
	StateClosed     State = "closed"
)

// ChannelConfig carries the caller-supplied handlers for one logical channel.
// Handlers are registered before the subscribe round-trip so no event can be
// missed between creation and acknowledgement.
type ChannelConfig struct {
	// OnEvent receives every change event delivered on the channel.
	OnEvent func(ChangeEvent)
	// OnSubscribed fires on every transition to joined, including rejoins.
	OnSubscribed func()
	// OnError fires exactly once, with the terminal status, when the retry
	// budget is exhausted.
	OnError func(Status)
}

// Channel is the caller-facing handle for one logical subscription. It stays
// valid across reconnects; additional consumers attach with Listen.
type Channel struct {
	name string

	mu        sync.Mutex
	state     State
	listeners map[int]chan ChangeEvent
	nextID    int
}

func newChannel(name string) *Channel {
	return &Channel{
		name:      name,
		state:     StateConnecting,
		listeners: make(map[int]chan ChangeEvent),
	}
}

func (c *Channel) Name() string {
	return c.name
}

func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Listen attaches an additional consumer. The cancel func must be called when
// the consumer goes away; it is safe to call more than once.
func (c *Channel) Listen(buffer int) (<-chan ChangeEvent, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	ch := make(chan ChangeEvent, buffer)
	c.listeners[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if l, ok := c.listeners[id]; ok {
				delete(c.listeners, id)
				close(l)
			}
		})
	}
	return ch, cancel
}

func (c *Channel) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// dispatch fans an event out to all listeners. Slow listeners drop events
// rather than block delivery to the rest.
func (c *Channel) dispatch(ev ChangeEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range c.listeners {
		select {
		case l <- ev:
		default:
		}
	}
}

func (c *Channel) closeListeners() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, l := range c.listeners {
		delete(c.listeners, id)
		close(l)
	}
}
