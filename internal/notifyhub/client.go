package notifyhub

import "complainthub/backend/internal/models"

// Client is the interface for any live push subscription (WebSocket session,
// Telegram bridge, test double). It abstracts the underlying transport so the
// hub can manage all subscriber types uniformly.
type Client interface {
	// GetSessionID returns the unique identifier of this subscription.
	// Several sessions may exist for the same user or role key.
	GetSessionID() string

	// TrySend enqueues an event for delivery without blocking. It returns
	// false when the client is closed or its buffer is full; the hub prunes
	// the client in that case. A slow subscriber must never stall a publish.
	TrySend(ev models.Event) bool

	// Run starts the client's delivery loop(s).
	Run()

	// Close shuts the client down. Safe to call more than once.
	Close()
}
