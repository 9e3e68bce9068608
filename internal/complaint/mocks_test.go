package complaint_test

import (
	"context"

	"complainthub/backend/internal/identity"
	"complainthub/backend/internal/models"
	"complainthub/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify mock of the storage.Storage interface.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveComplaint(c *models.Complaint) error {
	args := m.Called(c)
	return args.Error(0)
}

func (m *MockStorage) UpdateComplaint(c *models.Complaint) error {
	args := m.Called(c)
	return args.Error(0)
}

func (m *MockStorage) GetComplaintByID(id string) (*models.Complaint, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockStorage) DeleteComplaint(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStorage) ListComplaints(f storage.ComplaintFilter) ([]models.Complaint, error) {
	args := m.Called(f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) ListOpenComplaints() ([]models.Complaint, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) SaveHistoryEntry(e *models.WorkflowHistoryEntry) error {
	args := m.Called(e)
	return args.Error(0)
}

func (m *MockStorage) GetHistory(complaintID string) ([]models.WorkflowHistoryEntry, error) {
	args := m.Called(complaintID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WorkflowHistoryEntry), args.Error(1)
}

func (m *MockStorage) SaveNotification(n *models.Notification) error {
	args := m.Called(n)
	return args.Error(0)
}

func (m *MockStorage) ListNotificationsForUser(userID string) ([]models.Notification, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockStorage) ListNotificationsForRole(role models.Role) ([]models.Notification, error) {
	args := m.Called(role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockStorage) MarkNotificationRead(id uint, userID string) error {
	args := m.Called(id, userID)
	return args.Error(0)
}

func (m *MockStorage) SaveMessage(msg *models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) GetThread(complaintID string) ([]models.Message, error) {
	args := m.Called(complaintID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

// nopNotifier drops all pushes; service tests assert on persisted
// notifications instead.
type nopNotifier struct{}

func (nopNotifier) PublishToUser(string, models.Notification) {}
func (nopNotifier) PublishToRole(models.Role, models.Notification) {}

// stubIdentity maps ids to names and can be told to fail.
type stubIdentity struct {
	names map[string]string
	err   error
}

func (s *stubIdentity) Lookup(_ context.Context, userID string) (identity.DisplayInfo, error) {
	if s.err != nil {
		return identity.DisplayInfo{}, s.err
	}
	if name, ok := s.names[userID]; ok {
		return identity.DisplayInfo{DisplayName: name}, nil
	}
	return identity.DisplayInfo{}, nil
}
