// Package notifyhub is the in-memory real-time fan-out component. It keeps
// two registries of live subscribers, one keyed by user id and one by role,
// and delivers notification events to every live channel of a key. Delivery
// is best-effort: dead or slow subscribers are pruned immediately and a
// disconnected recipient reads persisted notifications instead.
package notifyhub

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"complainthub/backend/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// broadcastChannel is the Redis Pub/Sub channel that bridges hub instances:
// every publish is relayed so subscribers connected to other instances still
// receive the event.
const broadcastChannel = "notify:broadcast"

// KeyKind distinguishes the two subscriber registries.
type KeyKind int

const (
	KindUser KeyKind = iota
	KindRole
)

// Key addresses a set of subscribers: a specific user or a whole role group.
type Key struct {
	Kind  KeyKind
	Value string
}

func UserKey(userID string) Key    { return Key{Kind: KindUser, Value: userID} }
func RoleKey(role models.Role) Key { return Key{Kind: KindRole, Value: string(role)} }

// envelope is the wire form of a relayed publish.
type envelope struct {
	Origin       string              `json:"origin"`
	Scope        string              `json:"scope"` // "user" or "role"
	Key          string              `json:"key"`
	Notification models.Notification `json:"notification"`
}

// Hub manages live push subscriptions and fans notifications out to them.
type Hub struct {
	mu       sync.Mutex
	byUser   map[string]map[string]Client // userID -> sessionID -> client
	byRole   map[string]map[string]Client // role   -> sessionID -> client
	sessions map[string][]Key             // sessionID -> registered keys

	// Redis is optional; without it the hub is single-instance and purely
	// local, which is what the tests use.
	rdb      *redis.Client
	originID string
}

// NewHub creates a hub. rdb may be nil to disable the cross-instance bridge.
func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		byUser:   make(map[string]map[string]Client),
		byRole:   make(map[string]map[string]Client),
		sessions: make(map[string][]Key),
		rdb:      rdb,
		originID: uuid.New().String(),
	}
}

// Subscribe registers a client under each key and sends the initial
// "connected" acknowledgement. The ack always precedes any real notification
// on the channel.
func (h *Hub) Subscribe(c Client, keys ...Key) {
	h.mu.Lock()
	for _, key := range keys {
		reg := h.registry(key.Kind)
		set, ok := reg[key.Value]
		if !ok {
			set = make(map[string]Client)
			reg[key.Value] = set
		}
		set[c.GetSessionID()] = c
	}
	h.sessions[c.GetSessionID()] = keys
	h.mu.Unlock()

	c.TrySend(models.Event{Type: models.EventConnected})
}

// Unsubscribe removes a client from every registry it was registered under.
// Safe to call for an already-removed client.
func (h *Hub) Unsubscribe(c Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c.GetSessionID())
}

func (h *Hub) removeLocked(sessionID string) {
	keys, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	for _, key := range keys {
		reg := h.registry(key.Kind)
		if set, ok := reg[key.Value]; ok {
			delete(set, sessionID)
			if len(set) == 0 {
				delete(reg, key.Value)
			}
		}
	}
	delete(h.sessions, sessionID)
}

func (h *Hub) registry(kind KeyKind) map[string]map[string]Client {
	if kind == KindRole {
		return h.byRole
	}
	return h.byUser
}

// PublishToUser delivers a notification to every live session of a user and
// relays it to the other hub instances. Zero subscribers is a no-op.
func (h *Hub) PublishToUser(userID string, n models.Notification) {
	h.deliver(UserKey(userID), n)
	h.relay("user", userID, n)
}

// PublishToRole broadcasts a notification to every live session subscribed
// to a role group.
func (h *Hub) PublishToRole(role models.Role, n models.Notification) {
	h.deliver(RoleKey(role), n)
	h.relay("role", string(role), n)
}

// deliver fans an event out to the local subscribers of a key. Snapshots the
// set under the lock, then sends outside it so a pruned client can be
// unregistered without corrupting the iteration or skipping other channels.
func (h *Hub) deliver(key Key, n models.Notification) {
	h.mu.Lock()
	set := h.registry(key.Kind)[key.Value]
	clients := make([]Client, 0, len(set))
	for _, c := range set {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	ev := models.Event{Type: models.EventNotification, Notification: &n}
	for _, c := range clients {
		if !c.TrySend(ev) {
			log.Printf("INFO: Pruning dead subscriber %s (key %v)", c.GetSessionID(), key.Value)
			h.Unsubscribe(c)
			c.Close()
		}
	}
}

// relay publishes the envelope to Redis for the other instances. Failures are
// logged and swallowed: push is a best-effort accelerant, persistence is
// authoritative.
func (h *Hub) relay(scope, key string, n models.Notification) {
	if h.rdb == nil {
		return
	}
	payload, err := json.Marshal(envelope{
		Origin:       h.originID,
		Scope:        scope,
		Key:          key,
		Notification: n,
	})
	if err != nil {
		log.Printf("ERROR: Failed to marshal notification envelope: %v", err)
		return
	}
	if err := h.rdb.Publish(context.Background(), broadcastChannel, payload).Err(); err != nil {
		log.Printf("ERROR: Failed to relay notification to Redis: %v", err)
	}
}

// RunBridge listens on the Redis broadcast channel and re-delivers envelopes
// from other instances to the local subscribers. Blocks until ctx is done;
// run it in its own goroutine from the composition root.
func (h *Hub) RunBridge(ctx context.Context) {
	if h.rdb == nil {
		return
	}
	sub := h.rdb.Subscribe(ctx, broadcastChannel)
	defer sub.Close()

	ch := sub.Channel()
	log.Println("Notification bridge started.")

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Printf("ERROR: Failed to unmarshal bridge message: %v", err)
				continue
			}
			if env.Origin == h.originID {
				continue // already delivered locally on publish
			}
			if env.Scope == "role" {
				h.deliver(RoleKey(models.Role(env.Key)), env.Notification)
			} else {
				h.deliver(UserKey(env.Key), env.Notification)
			}
		case <-ctx.Done():
			return
		}
	}
}

// SubscriberCount reports how many live sessions a key currently has.
func (h *Hub) SubscriberCount(key Key) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.registry(key.Kind)[key.Value])
}
