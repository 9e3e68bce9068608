package models

import "gorm.io/gorm"

// NotificationType tells the recipient why they are being notified.
type NotificationType string

const (
	NotificationNewComplaint NotificationType = "NEW_COMPLAINT"
	NotificationNewMessage   NotificationType = "NEW_MESSAGE"
	NotificationStatusChange NotificationType = "STATUS_CHANGE"
	NotificationEscalation   NotificationType = "ESCALATION"
	NotificationNoted        NotificationType = "NOTED"
	NotificationOverdue      NotificationType = "OVERDUE"
)

// Notification is the persisted record of an update pushed (best-effort) to a
// user or role. Persistence is authoritative; a recipient who was offline
// polls these instead of replaying the push stream.
type Notification struct {
	gorm.Model

	ComplaintID string `gorm:"type:uuid;not null;index" json:"complaint_id"`

	// RecipientID is empty for role broadcasts; RecipientRole always carries
	// the audience either way.
	RecipientID   string           `gorm:"index" json:"recipient_id"`
	RecipientRole Role             `gorm:"type:text;index" json:"recipient_role"`
	Type          NotificationType `gorm:"type:text;not null" json:"type"`
	Message       string           `gorm:"type:text;not null" json:"message"`

	// IsRead is the only mutable field, flipped by the recipient.
	IsRead bool `json:"is_read"`
}
