// Package workflow orchestrates the complaint lifecycle: initial routing at
// creation, status transitions with their audit trail, and automatic
// escalation of overdue cases. Every transition appends a history entry and
// emits a notification; persistence is authoritative and must succeed, the
// real-time push is best-effort.
package workflow

import (
	"fmt"
	"log"
	"time"

	"complainthub/backend/internal/config"
	"complainthub/backend/internal/models"
	"complainthub/backend/internal/risk"
	"complainthub/backend/internal/storage"
)

// Notifier is the push side of the engine; *notifyhub.Hub satisfies it.
// Implementations must never block and never fail the caller.
type Notifier interface {
	PublishToUser(userID string, n models.Notification)
	PublishToRole(role models.Role, n models.Notification)
}

// Engine drives complaint state. One instance is shared by the HTTP layer,
// the admin CLI and the escalation sweeper.
type Engine struct {
	Storage storage.Storage
	Hub     Notifier

	// Now is the clock; swapped out in tests.
	Now func() time.Time
}

func NewEngine(s storage.Storage, hub Notifier) *Engine {
	return &Engine{Storage: s, Hub: hub, Now: time.Now}
}

// CreateComplaint sets the initial OPEN status, computes priority, risk and
// target role, persists the complaint, and broadcasts a NEW_COMPLAINT
// notification to the responsible role group.
func (e *Engine) CreateComplaint(c *models.Complaint) error {
	c.Status = models.StatusOpen
	if c.CreatedAt.IsZero() {
		c.CreatedAt = e.Now()
	}
	risk.Apply(c, e.Now())

	if err := e.Storage.SaveComplaint(c); err != nil {
		return fmt.Errorf("create complaint: %w", err)
	}

	return e.emit(&models.Notification{
		ComplaintID:   c.ID,
		RecipientRole: c.TargetRole,
		Type:          models.NotificationNewComplaint,
		Message:       fmt.Sprintf("New %s complaint: %s", c.Category, c.Subject),
	})
}

// IsEscalation reports whether a transition reopens a closed complaint. Only
// these pairs ever count as escalations; the overdue sweep is an ordinary
// forced transition.
func IsEscalation(old, new models.Status) bool {
	reopened := old == models.StatusResolved || old == models.StatusRejected
	active := new == models.StatusOpen || new == models.StatusInProgress
	return reopened && active
}

// RecordTransition appends the audit entry for a status change that has
// already been written to the complaint, then notifies the submitter. The
// history write and the notification write are hard failures; push delivery
// is not.
func (e *Engine) RecordTransition(c *models.Complaint, old, new models.Status, actorID string, actorRole models.Role, comment string) error {
	entry := &models.WorkflowHistoryEntry{
		ComplaintID: c.ID,
		FromStatus:  old,
		ToStatus:    new,
		ActorID:     actorID,
		ActorRole:   actorRole,
		Comment:     comment,
	}
	if IsEscalation(old, new) {
		entry.IsEscalation = true
		entry.EscalationReason = fmt.Sprintf("Complaint reopened: %s -> %s", old, new)
	}

	if err := e.Storage.SaveHistoryEntry(entry); err != nil {
		return fmt.Errorf("record transition: %w", err)
	}

	n := &models.Notification{
		ComplaintID:   c.ID,
		RecipientID:   c.SubmitterID,
		RecipientRole: models.RoleStudent,
	}
	switch {
	case entry.IsEscalation:
		n.Type = models.NotificationEscalation
		n.Message = "Your complaint has been escalated for review."
	case new == models.StatusNoted:
		n.Type = models.NotificationNoted
		n.Message = "Your complaint has been noted."
	default:
		n.Type = models.NotificationStatusChange
		n.Message = fmt.Sprintf("Your complaint status changed to %s.", new)
	}
	return e.emit(n)
}

// RecordMessage notifies the submitter about a new staff reply on the thread.
// Messages from the submitter themselves produce no notification.
func (e *Engine) RecordMessage(c *models.Complaint, m *models.Message) error {
	if m.AuthorRole == models.RoleStudent {
		return nil
	}
	return e.emit(&models.Notification{
		ComplaintID:   c.ID,
		RecipientID:   c.SubmitterID,
		RecipientRole: models.RoleStudent,
		Type:          models.NotificationNewMessage,
		Message:       fmt.Sprintf("New reply on your complaint from %s.", m.AuthorRole),
	})
}

// CheckAndEscalateOverdue forces still-OPEN complaints past their
// priority-dependent deadline into IN_PROGRESS as the system actor, and
// broadcasts an OVERDUE notification to the academic office. Idempotent under
// repeated sweeps: a complaint escalated out of OPEN is no longer a
// candidate. Returns how many complaints were escalated; individual failures
// are logged and do not stop the sweep.
func (e *Engine) CheckAndEscalateOverdue(complaints []models.Complaint) int {
	now := e.Now()
	escalated := 0

	for i := range complaints {
		c := &complaints[i]
		if c.Status != models.StatusOpen {
			continue
		}
		deadline, ok := config.EscalationDeadlines[c.Priority]
		if !ok {
			continue // LOW never auto-escalates
		}
		if now.Sub(c.CreatedAt) <= deadline {
			continue
		}

		old := c.Status
		c.Status = models.StatusInProgress
		if err := e.Storage.UpdateComplaint(c); err != nil {
			log.Printf("ERROR: Failed to escalate overdue complaint %s: %v", c.ID, err)
			continue
		}

		entry := &models.WorkflowHistoryEntry{
			ComplaintID: c.ID,
			FromStatus:  old,
			ToStatus:    models.StatusInProgress,
			ActorRole:   models.RoleSystem,
			Comment:     fmt.Sprintf("Escalated automatically: %s complaint overdue after %d day(s)", c.Priority, c.AgeDays(now)),
		}
		if err := e.Storage.SaveHistoryEntry(entry); err != nil {
			log.Printf("ERROR: Failed to record overdue escalation for %s: %v", c.ID, err)
			continue
		}

		err := e.emit(&models.Notification{
			ComplaintID:   c.ID,
			RecipientRole: models.RoleAcademicOffice,
			Type:          models.NotificationOverdue,
			Message:       fmt.Sprintf("Complaint %s (%s) exceeded its %s deadline and was moved to IN_PROGRESS.", c.ID, c.Subject, c.Priority),
		})
		if err != nil {
			log.Printf("ERROR: Failed to notify overdue escalation for %s: %v", c.ID, err)
			continue
		}
		escalated++
	}
	return escalated
}

// emit persists the notification, then pushes it. The push happens through
// the hub, which logs and prunes on its own; a degraded real-time experience
// never fails the business operation.
func (e *Engine) emit(n *models.Notification) error {
	if err := e.Storage.SaveNotification(n); err != nil {
		return fmt.Errorf("persist notification: %w", err)
	}
	if n.RecipientID != "" {
		e.Hub.PublishToUser(n.RecipientID, *n)
	} else {
		e.Hub.PublishToRole(n.RecipientRole, *n)
	}
	return nil
}
