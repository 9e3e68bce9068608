package models

import "gorm.io/gorm"

// WorkflowHistoryEntry is an immutable audit record of one status transition.
// Entries are append-only and never updated after creation; gorm.Model's
// CreatedAt is the transition timestamp.
type WorkflowHistoryEntry struct {
	gorm.Model

	ComplaintID string `gorm:"type:uuid;not null;index" json:"complaint_id"`
	FromStatus  Status `gorm:"type:text;not null" json:"from_status"`
	ToStatus    Status `gorm:"type:text;not null" json:"to_status"`

	// ActorID is empty for transitions performed by the system (the
	// escalation sweeper, the admin CLI running as SYSTEM).
	ActorID   string `json:"actor_id"`
	ActorRole Role   `gorm:"type:text" json:"actor_role"`
	Comment   string `gorm:"type:text" json:"comment,omitempty"`

	IsEscalation     bool   `gorm:"index" json:"is_escalation"`
	EscalationReason string `gorm:"type:text" json:"escalation_reason,omitempty"`
}
