package storage

import (
	"errors"
	"log"
	"time"

	"complainthub/backend/internal/models"

	"gorm.io/gorm"
)

// ComplaintFilter narrows List queries. Zero values mean "no constraint".
type ComplaintFilter struct {
	Status       models.Status
	Category     models.Category
	CreatedAfter time.Time
	CreatedUntil time.Time
}

type Storage interface {
	SaveComplaint(c *models.Complaint) error
	UpdateComplaint(c *models.Complaint) error
	GetComplaintByID(id string) (*models.Complaint, error)
	DeleteComplaint(id string) error
	ListComplaints(f ComplaintFilter) ([]models.Complaint, error)
	ListOpenComplaints() ([]models.Complaint, error)

	SaveHistoryEntry(e *models.WorkflowHistoryEntry) error
	GetHistory(complaintID string) ([]models.WorkflowHistoryEntry, error)

	SaveNotification(n *models.Notification) error
	ListNotificationsForUser(userID string) ([]models.Notification, error)
	ListNotificationsForRole(role models.Role) ([]models.Notification, error)
	MarkNotificationRead(id uint, userID string) error

	SaveMessage(m *models.Message) error
	GetThread(complaintID string) ([]models.Message, error)
}

// Service is the PostgreSQL-backed Storage implementation.
type Service struct {
	DB *gorm.DB
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

func (s *Service) SaveComplaint(c *models.Complaint) error {
	if c.Status == "" {
		c.Status = models.StatusOpen
	}
	if err := s.DB.Create(c).Error; err != nil {
		log.Printf("ERROR: Failed to save complaint from %s: %v", c.SubmitterID, err)
		return err
	}
	return nil
}

func (s *Service) UpdateComplaint(c *models.Complaint) error {
	return s.DB.Save(c).Error
}

// GetComplaintByID returns (nil, nil) when the complaint does not exist;
// callers translate that into their own not-found error.
func (s *Service) GetComplaintByID(id string) (*models.Complaint, error) {
	var c models.Complaint
	err := s.DB.First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteComplaint removes a complaint together with its history, thread and
// notifications in one transaction. History and notifications reference the
// complaint, so they must never outlive it.
func (s *Service) DeleteComplaint(id string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("complaint_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("complaint_id = ?", id).Delete(&models.WorkflowHistoryEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("complaint_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Complaint{}, "id = ?", id).Error
	})
}

func (s *Service) ListComplaints(f ComplaintFilter) ([]models.Complaint, error) {
	q := s.DB.Model(&models.Complaint{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if !f.CreatedAfter.IsZero() {
		q = q.Where("created_at >= ?", f.CreatedAfter)
	}
	if !f.CreatedUntil.IsZero() {
		q = q.Where("created_at <= ?", f.CreatedUntil)
	}

	var complaints []models.Complaint
	if err := q.Order("created_at desc").Find(&complaints).Error; err != nil {
		log.Printf("ERROR: Failed to list complaints: %v", err)
		return nil, err
	}
	return complaints, nil
}

// ListOpenComplaints feeds the escalation sweeper.
func (s *Service) ListOpenComplaints() ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := s.DB.Where("status = ?", models.StatusOpen).Find(&complaints).Error
	if err != nil {
		return nil, err
	}
	return complaints, nil
}

func (s *Service) SaveHistoryEntry(e *models.WorkflowHistoryEntry) error {
	if err := s.DB.Create(e).Error; err != nil {
		log.Printf("ERROR: Failed to save history entry for complaint %s: %v", e.ComplaintID, err)
		return err
	}
	return nil
}

func (s *Service) GetHistory(complaintID string) ([]models.WorkflowHistoryEntry, error) {
	var entries []models.WorkflowHistoryEntry
	err := s.DB.Where("complaint_id = ?", complaintID).Order("created_at asc").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Service) SaveNotification(n *models.Notification) error {
	if err := s.DB.Create(n).Error; err != nil {
		log.Printf("ERROR: Failed to save notification for complaint %s: %v", n.ComplaintID, err)
		return err
	}
	return nil
}

// ListNotificationsForUser returns direct notifications for the user, newest
// first. A recipient who was offline during the push polls these.
func (s *Service) ListNotificationsForUser(userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.DB.Where("recipient_id = ?", userID).Order("created_at desc").Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// ListNotificationsForRole returns role broadcasts (no individual recipient),
// newest first.
func (s *Service) ListNotificationsForRole(role models.Role) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.DB.Where("recipient_id = '' AND recipient_role = ?", role).
		Order("created_at desc").Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead flips the read flag, but only for the notification's
// own recipient.
func (s *Service) MarkNotificationRead(id uint, userID string) error {
	result := s.DB.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *Service) SaveMessage(m *models.Message) error {
	if err := s.DB.Create(m).Error; err != nil {
		log.Printf("ERROR: Failed to save message for complaint %s: %v", m.ComplaintID, err)
		return err
	}
	return nil
}

func (s *Service) GetThread(complaintID string) ([]models.Message, error) {
	var messages []models.Message
	err := s.DB.Where("complaint_id = ?", complaintID).Order("created_at asc").Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
