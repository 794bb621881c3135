package clock

import "time"

// Clock abstracts wall time so order numbering and timestamps are testable.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func NewRealClock() Clock { return RealClock{} }

func (RealClock) Now() time.Time { return time.Now() }

// MockClock reports a fixed instant that tests move explicitly.
type MockClock struct {
	current time.Time
}

func NewMockClock(t time.Time) *MockClock {
	return &MockClock{current: t}
}

func (c *MockClock) Now() time.Time { return c.current }

func (c *MockClock) Set(t time.Time) { c.current = t }

func (c *MockClock) Advance(d time.Duration) { c.current = c.current.Add(d) }
