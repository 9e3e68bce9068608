// Package complaint is the top-level façade over the complaint workflow: it
// validates input, enforces the access matrix, persists entities, and hands
// lifecycle events to the workflow engine.
package complaint

import (
	"context"
	"errors"
	"fmt"
	"log"

	"complainthub/backend/internal/access"
	"complainthub/backend/internal/identity"
	"complainthub/backend/internal/models"
	"complainthub/backend/internal/risk"
	"complainthub/backend/internal/storage"
	"complainthub/backend/internal/workflow"
)

var (
	ErrNotFound          = errors.New("complaint not found")
	ErrForbidden         = errors.New("operation not permitted")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrValidation        = errors.New("validation failed")
)

// Service handles the business logic for complaints.
type Service struct {
	Storage  storage.Storage
	Engine   *workflow.Engine
	Identity identity.Lookup
}

// NewService creates a new complaint service.
func NewService(s storage.Storage, engine *workflow.Engine, lookup identity.Lookup) *Service {
	return &Service{Storage: s, Engine: engine, Identity: lookup}
}

// CreateInput is the creation payload from the boundary.
type CreateInput struct {
	SubmitterID  string          `json:"submitter_id"`
	Category     models.Category `json:"category"`
	Subject      string          `json:"subject"`
	Description  string          `json:"description"`
	Tags         []string        `json:"tags"`
	SessionCount *int            `json:"session_count"`
}

// Create validates the input and routes the new complaint through the engine,
// which scores it and notifies the target role.
func (s *Service) Create(in CreateInput) (*models.Complaint, error) {
	switch {
	case in.SubmitterID == "":
		return nil, fmt.Errorf("%w: submitter is required", ErrValidation)
	case in.Subject == "":
		return nil, fmt.Errorf("%w: subject is required", ErrValidation)
	case !models.KnownCategories[in.Category]:
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, in.Category)
	}

	c := &models.Complaint{
		SubmitterID:  in.SubmitterID,
		Category:     in.Category,
		Subject:      in.Subject,
		Description:  in.Description,
		Tags:         in.Tags,
		SessionCount: in.SessionCount,
	}
	if err := s.Engine.CreateComplaint(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get loads a complaint the actor is allowed to view.
func (s *Service) Get(id, actorID string, actorRole models.Role) (*models.Complaint, error) {
	c, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if !access.Can(c, actorID, actorRole, access.ActionView) {
		return nil, ErrForbidden
	}
	return c, nil
}

// UpdateInput carries the submitter-editable fields.
type UpdateInput struct {
	Subject     string   `json:"subject"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

func (s *Service) Update(id, actorID string, actorRole models.Role, in UpdateInput) (*models.Complaint, error) {
	c, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if !access.Can(c, actorID, actorRole, access.ActionUpdate) {
		return nil, ErrForbidden
	}

	if in.Subject != "" {
		c.Subject = in.Subject
	}
	if in.Description != "" {
		c.Description = in.Description
	}
	if in.Tags != nil {
		c.Tags = in.Tags
	}
	if err := s.Storage.UpdateComplaint(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a complaint and everything referencing it.
func (s *Service) Delete(id, actorID string, actorRole models.Role) error {
	c, err := s.load(id)
	if err != nil {
		return err
	}
	if !access.Can(c, actorID, actorRole, access.ActionDelete) {
		return ErrForbidden
	}
	return s.Storage.DeleteComplaint(id)
}

// List returns the complaints matching the filter that the actor may see.
func (s *Service) List(f storage.ComplaintFilter, actorID string, actorRole models.Role) ([]models.Complaint, error) {
	complaints, err := s.Storage.ListComplaints(f)
	if err != nil {
		return nil, err
	}

	visible := make([]models.Complaint, 0, len(complaints))
	for _, c := range complaints {
		if access.ShouldIncludeInList(&c, actorID, actorRole) {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

// ChangeStatus applies a status transition: access check, status write, then
// the engine's history/notification path.
func (s *Service) ChangeStatus(id string, newStatus models.Status, actorID string, actorRole models.Role, comment string) (*models.Complaint, error) {
	if !models.KnownStatuses[newStatus] {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, newStatus)
	}

	c, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if !access.Can(c, actorID, actorRole, access.ActionChangeStatus) {
		return nil, ErrForbidden
	}

	old := c.Status
	if old == newStatus {
		return c, nil
	}
	c.Status = newStatus
	if err := s.Storage.UpdateComplaint(c); err != nil {
		return nil, err
	}
	if err := s.Engine.RecordTransition(c, old, newStatus, actorID, actorRole, comment); err != nil {
		return nil, err
	}
	return c, nil
}

// GetHistory returns the complaint's audit trail, oldest first.
func (s *Service) GetHistory(id, actorID string, actorRole models.Role) ([]models.WorkflowHistoryEntry, error) {
	c, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if !access.Can(c, actorID, actorRole, access.ActionView) {
		return nil, ErrForbidden
	}
	return s.Storage.GetHistory(id)
}

// PostMessage appends to the complaint's thread. A reply from a non-student
// role also becomes the complaint's current response (last message wins) and
// notifies the submitter.
func (s *Service) PostMessage(complaintID, authorID string, authorRole models.Role, content string) (*models.Message, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: message content is required", ErrValidation)
	}

	c, err := s.load(complaintID)
	if err != nil {
		return nil, err
	}
	if !access.Can(c, authorID, authorRole, access.ActionView) {
		return nil, ErrForbidden
	}

	m := &models.Message{
		ComplaintID: complaintID,
		AuthorID:    authorID,
		AuthorRole:  authorRole,
		Content:     content,
	}
	if err := s.Storage.SaveMessage(m); err != nil {
		return nil, err
	}

	if authorRole != models.RoleStudent {
		c.Response = content
		c.ResponderID = authorID
		c.ResponderRole = authorRole
		if err := s.Storage.UpdateComplaint(c); err != nil {
			return nil, err
		}
	}

	if err := s.Engine.RecordMessage(c, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ThreadEntry is a message decorated with its author's display name.
type ThreadEntry struct {
	models.Message
	AuthorName string `json:"author_name"`
}

// GetThread returns the full thread ordered by timestamp ascending, enriched
// with display names from the profile service. Lookup failures degrade to a
// placeholder name rather than failing the request.
func (s *Service) GetThread(ctx context.Context, complaintID, actorID string, actorRole models.Role) ([]ThreadEntry, error) {
	c, err := s.load(complaintID)
	if err != nil {
		return nil, err
	}
	if !access.Can(c, actorID, actorRole, access.ActionView) {
		return nil, ErrForbidden
	}

	messages, err := s.Storage.GetThread(complaintID)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string)
	thread := make([]ThreadEntry, 0, len(messages))
	for _, m := range messages {
		name, ok := names[m.AuthorID]
		if !ok {
			info, err := s.Identity.Lookup(ctx, m.AuthorID)
			if err != nil {
				log.Printf("WARN: identity lookup failed for %s: %v", m.AuthorID, err)
			}
			name = identity.OrPlaceholder(info, err).DisplayName
			names[m.AuthorID] = name
		}
		thread = append(thread, ThreadEntry{Message: m, AuthorName: name})
	}
	return thread, nil
}

// Notifications returns the user's direct notifications plus, for staff, the
// broadcasts addressed to their role.
func (s *Service) Notifications(userID string, role models.Role) ([]models.Notification, error) {
	direct, err := s.Storage.ListNotificationsForUser(userID)
	if err != nil {
		return nil, err
	}
	if role == models.RoleStudent || role == "" {
		return direct, nil
	}
	broadcast, err := s.Storage.ListNotificationsForRole(role)
	if err != nil {
		return nil, err
	}
	return append(direct, broadcast...), nil
}

// MarkNotificationRead flips the read flag for the recipient.
func (s *Service) MarkNotificationRead(id uint, userID string) error {
	if err := s.Storage.MarkNotificationRead(id, userID); err != nil {
		return fmt.Errorf("%w: notification %d", ErrNotFound, id)
	}
	return nil
}

// RecomputeRisk re-runs the scorer on a stored complaint, used by audit and
// dashboard refresh flows. Idempotent on unchanged input.
func (s *Service) RecomputeRisk(id string) (*models.Complaint, error) {
	c, err := s.load(id)
	if err != nil {
		return nil, err
	}
	risk.Apply(c, s.Engine.Now())
	if err := s.Storage.UpdateComplaint(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) load(id string) (*models.Complaint, error) {
	c, err := s.Storage.GetComplaintByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c, nil
}
