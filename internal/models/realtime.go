package models

// Event is what actually travels down a push channel.
type Event struct {
	// Type is "connected" for the initial handshake, "notification" after.
	Type         string        `json:"type"`
	Notification *Notification `json:"notification,omitempty"`
}

const (
	EventConnected    = "connected"
	EventNotification = "notification"
)
