package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Category classifies what a complaint is about. The set is closed: routing
// and scoring tables are keyed by it.
type Category string

const (
	CategoryPedagogical    Category = "PEDAGOGICAL"
	CategoryTechnical      Category = "TECHNICAL"
	CategoryAdministrative Category = "ADMINISTRATIVE"
	CategoryBehavioral     Category = "BEHAVIORAL"
	CategoryOther          Category = "OTHER"
)

// Status is a complaint's lifecycle state.
type Status string

const (
	StatusOpen                       Status = "OPEN"
	StatusSubmitted                  Status = "SUBMITTED"
	StatusAnalyzed                   Status = "ANALYZED"
	StatusActionAssigned             Status = "ACTION_ASSIGNED"
	StatusNoted                      Status = "NOTED"
	StatusInProgress                 Status = "IN_PROGRESS"
	StatusPendingStudentConfirmation Status = "PENDING_STUDENT_CONFIRMATION"
	StatusResolved                   Status = "RESOLVED"
	StatusReopened                   Status = "REOPENED"
	StatusRejected                   Status = "REJECTED"
)

// Priority is the coarse urgency bucket shown on dashboards and used for the
// overdue-escalation deadlines.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// RiskLevel is the five-bucket classification of the 0..100 risk score.
// It is computed independently of Priority; the two scales can disagree.
type RiskLevel string

const (
	RiskNormal   RiskLevel = "NORMAL"
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Role identifies an actor group on the platform.
type Role string

const (
	RoleStudent        Role = "STUDENT"
	RoleTutor          Role = "TUTOR"
	RoleAcademicOffice Role = "ACADEMIC_OFFICE"
	RoleSupport        Role = "SUPPORT"
	RoleAdmin          Role = "ADMIN"
	// RoleSystem marks transitions performed by background jobs rather than
	// a person (the actor id is empty in that case).
	RoleSystem Role = "SYSTEM"
)

// Complaint is a submitted grievance tracked through its lifecycle.
// TargetRole, Priority, RiskScore and RiskLevel are always populated before
// the complaint becomes visible to anyone but its submitter.
type Complaint struct {
	ID          string   `gorm:"primaryKey" json:"id"`
	SubmitterID string   `gorm:"index;not null" json:"submitter_id"`
	Category    Category `gorm:"type:text;not null" json:"category"`
	Subject     string   `gorm:"type:text;not null" json:"subject"`
	Description string   `gorm:"type:text" json:"description"`

	Tags pq.StringArray `gorm:"type:text[]" json:"tags,omitempty"`

	Status   Status   `gorm:"type:text;index" json:"status"`
	Priority Priority `gorm:"type:text;index" json:"priority"`

	RiskScore            int       `json:"risk_score"`
	RiskLevel            RiskLevel `gorm:"type:text" json:"risk_level"`
	TargetRole           Role      `gorm:"type:text;index" json:"target_role"`
	RequiresIntervention bool      `json:"requires_intervention"`

	// Latest staff reply, denormalized onto the complaint. Last write wins.
	Response      string `gorm:"type:text" json:"response,omitempty"`
	ResponderID   string `json:"responder_id,omitempty"`
	ResponderRole Role   `gorm:"type:text" json:"responder_role,omitempty"`

	// SessionCount is an optional domain signal: how many tutoring sessions
	// the submitter had with the counterparty. Nil when unknown.
	SessionCount *int `json:"session_count,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates the complaint ID if it has not been set.
func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// AgeDays returns the whole days elapsed since the complaint was created.
func (c *Complaint) AgeDays(now time.Time) int {
	if c.CreatedAt.IsZero() || now.Before(c.CreatedAt) {
		return 0
	}
	return int(now.Sub(c.CreatedAt).Hours() / 24)
}

// KnownStatuses is the closed state set; anything else is rejected at the
// boundary before it reaches the workflow engine.
var KnownStatuses = map[Status]bool{
	StatusOpen:                       true,
	StatusSubmitted:                  true,
	StatusAnalyzed:                   true,
	StatusActionAssigned:             true,
	StatusNoted:                      true,
	StatusInProgress:                 true,
	StatusPendingStudentConfirmation: true,
	StatusResolved:                   true,
	StatusReopened:                   true,
	StatusRejected:                   true,
}

// KnownCategories mirrors KnownStatuses for the category enum.
var KnownCategories = map[Category]bool{
	CategoryPedagogical:    true,
	CategoryTechnical:      true,
	CategoryAdministrative: true,
	CategoryBehavioral:     true,
	CategoryOther:          true,
}
