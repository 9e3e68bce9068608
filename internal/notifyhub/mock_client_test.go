package notifyhub_test

import (
	"sync"

	"complainthub/backend/internal/models"
)

// mockClient is a test double for notifyhub.Client with a buffered receive
// channel and an optional hard failure mode to simulate a dead connection.
type mockClient struct {
	sessionID string
	Recv      chan models.Event

	mu     sync.Mutex
	closed bool
	broken bool
}

func newMockClient(sessionID string) *mockClient {
	return &mockClient{
		sessionID: sessionID,
		Recv:      make(chan models.Event, 16),
	}
}

func (c *mockClient) GetSessionID() string { return c.sessionID }

func (c *mockClient) TrySend(ev models.Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.broken {
		return false
	}
	select {
	case c.Recv <- ev:
		return true
	default:
		return false
	}
}

func (c *mockClient) Run() {}

func (c *mockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *mockClient) Break() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.broken = true
}

func (c *mockClient) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// drain returns everything currently buffered.
func (c *mockClient) drain() []models.Event {
	var events []models.Event
	for {
		select {
		case ev := <-c.Recv:
			events = append(events, ev)
		default:
			return events
		}
	}
}
