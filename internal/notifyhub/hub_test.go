package notifyhub_test

import (
	"fmt"
	"sync"
	"testing"

	"complainthub/backend/internal/models"
	"complainthub/backend/internal/notifyhub"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notificationFor(complaintID string) models.Notification {
	return models.Notification{
		ComplaintID: complaintID,
		Type:        models.NotificationStatusChange,
		Message:     "status changed",
	}
}

func TestHub_SubscribeSendsConnectedAck(t *testing.T) {
	hub := notifyhub.NewHub(nil)
	client := newMockClient("s1")

	hub.Subscribe(client, notifyhub.UserKey("user-1"))

	require.Len(t, client.drain(), 1)
	hub.PublishToUser("user-1", notificationFor("c-1"))

	events := client.drain()
	require.Len(t, events, 1)
	assert.Equal(t, models.EventNotification, events[0].Type)
	assert.Equal(t, "c-1", events[0].Notification.ComplaintID)
}

func TestHub_AckPrecedesNotifications(t *testing.T) {
	hub := notifyhub.NewHub(nil)
	client := newMockClient("s1")

	hub.Subscribe(client, notifyhub.UserKey("user-1"))
	hub.PublishToUser("user-1", notificationFor("c-1"))

	events := client.drain()
	require.Len(t, events, 2)
	assert.Equal(t, models.EventConnected, events[0].Type)
	assert.Equal(t, models.EventNotification, events[1].Type)
}

func TestHub_PublishToRole(t *testing.T) {
	hub := notifyhub.NewHub(nil)
	support1 := newMockClient("s1")
	support2 := newMockClient("s2")
	tutor := newMockClient("s3")

	hub.Subscribe(support1, notifyhub.RoleKey(models.RoleSupport))
	hub.Subscribe(support2, notifyhub.RoleKey(models.RoleSupport))
	hub.Subscribe(tutor, notifyhub.RoleKey(models.RoleTutor))
	support1.drain()
	support2.drain()
	tutor.drain()

	hub.PublishToRole(models.RoleSupport, notificationFor("c-1"))

	assert.Len(t, support1.drain(), 1)
	assert.Len(t, support2.drain(), 1)
	assert.Empty(t, tutor.drain())
}

// TestHub_PublishNoSubscribers: publishing to a key nobody listens on is a
// no-op and must not panic.
func TestHub_PublishNoSubscribers(t *testing.T) {
	hub := notifyhub.NewHub(nil)

	assert.NotPanics(t, func() {
		hub.PublishToRole(models.RoleAcademicOffice, notificationFor("c-1"))
		hub.PublishToUser("ghost", notificationFor("c-2"))
	})
}

func TestHub_MultipleSessionsPerUser(t *testing.T) {
	hub := notifyhub.NewHub(nil)
	phone := newMockClient("s1")
	laptop := newMockClient("s2")

	hub.Subscribe(phone, notifyhub.UserKey("user-1"))
	hub.Subscribe(laptop, notifyhub.UserKey("user-1"))
	phone.drain()
	laptop.drain()

	hub.PublishToUser("user-1", notificationFor("c-1"))

	assert.Len(t, phone.drain(), 1)
	assert.Len(t, laptop.drain(), 1)
}

// TestHub_PrunesDeadSubscriber: a failed send removes that client from the
// registry and closes it, without affecting other subscribers of the key.
func TestHub_PrunesDeadSubscriber(t *testing.T) {
	hub := notifyhub.NewHub(nil)
	dead := newMockClient("s1")
	alive := newMockClient("s2")

	hub.Subscribe(dead, notifyhub.RoleKey(models.RoleSupport))
	hub.Subscribe(alive, notifyhub.RoleKey(models.RoleSupport))
	alive.drain()
	dead.Break()

	hub.PublishToRole(models.RoleSupport, notificationFor("c-1"))

	assert.True(t, dead.IsClosed())
	assert.Len(t, alive.drain(), 1)
	assert.Equal(t, 1, hub.SubscriberCount(notifyhub.RoleKey(models.RoleSupport)))

	// A second publish must not try the pruned client again.
	hub.PublishToRole(models.RoleSupport, notificationFor("c-2"))
	assert.Len(t, alive.drain(), 1)
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := notifyhub.NewHub(nil)
	client := newMockClient("s1")

	hub.Subscribe(client, notifyhub.UserKey("user-1"), notifyhub.RoleKey(models.RoleSupport))
	assert.Equal(t, 1, hub.SubscriberCount(notifyhub.UserKey("user-1")))
	assert.Equal(t, 1, hub.SubscriberCount(notifyhub.RoleKey(models.RoleSupport)))

	hub.Unsubscribe(client)
	assert.Equal(t, 0, hub.SubscriberCount(notifyhub.UserKey("user-1")))
	assert.Equal(t, 0, hub.SubscriberCount(notifyhub.RoleKey(models.RoleSupport)))

	// Unsubscribing twice is harmless.
	assert.NotPanics(t, func() { hub.Unsubscribe(client) })
}

// TestHub_ConcurrentPublishSubscribe hammers the registries from multiple
// goroutines; run with -race.
func TestHub_ConcurrentPublishSubscribe(t *testing.T) {
	hub := notifyhub.NewHub(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c := newMockClient(fmt.Sprintf("s-%d-%d", i, j))
				hub.Subscribe(c, notifyhub.RoleKey(models.RoleSupport))
				hub.PublishToRole(models.RoleSupport, notificationFor("c-1"))
				hub.Unsubscribe(c)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, hub.SubscriberCount(notifyhub.RoleKey(models.RoleSupport)))
}
