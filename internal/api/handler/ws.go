package handler

import (
	"log"
	"net/http"

	"complainthub/backend/internal/models"
	"complainthub/backend/internal/notifyhub"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The service sits behind the platform gateway; origin policy is
	// enforced there.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the connection and subscribes the client to its
// push streams: the user's own key always, plus the role group for staff so
// they receive role broadcasts live.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	userID, role := actor(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ERROR: Failed to upgrade websocket for %s: %v", userID, err)
		return
	}

	client := notifyhub.NewWebSocketClient(h.Hub, conn, userID)

	keys := []notifyhub.Key{notifyhub.UserKey(userID)}
	if role != models.RoleStudent && role != "" {
		keys = append(keys, notifyhub.RoleKey(role))
	}
	h.Hub.Subscribe(client, keys...)
	client.Run()
}
