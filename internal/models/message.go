package models

import "gorm.io/gorm"

// Message is one entry in a complaint's discussion thread. Append-only; a
// message from a non-student role also overwrites the complaint's Response
// fields (last message wins).
type Message struct {
	gorm.Model

	ComplaintID string `gorm:"type:uuid;not null;index" json:"complaint_id"`
	AuthorID    string `gorm:"not null" json:"author_id"`
	AuthorRole  Role   `gorm:"type:text;not null" json:"author_role"`
	Content     string `gorm:"type:text;not null" json:"content"`
}
