// Package telegram forwards role broadcasts to a staff Telegram chat. The
// bridge subscribes to the hub like any other client, so staff who keep a
// Telegram window open see new complaints and overdue escalations without a
// dashboard session.
package telegram

import (
	"fmt"
	"log"
	"sync"

	"complainthub/backend/internal/models"
	"complainthub/backend/internal/notifyhub"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

const sendBufferSize = 32

// BotService relays hub events into a single staff chat.
type BotService struct {
	BotAPI *tgbotapi.BotAPI
	Hub    *notifyhub.Hub
	ChatID int64

	sessionID string
	send      chan models.Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewBotService authenticates against the Bot API. chatID is the staff group
// that receives the relayed notifications.
func NewBotService(token string, chatID int64, hub *notifyhub.Hub) (*BotService, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("✅ Authorized on account %s", bot.Self.UserName)

	return &BotService{
		BotAPI:    bot,
		Hub:       hub,
		ChatID:    chatID,
		sessionID: uuid.New().String(),
		send:      make(chan models.Event, sendBufferSize),
		done:      make(chan struct{}),
	}, nil
}

func (s *BotService) GetSessionID() string { return s.sessionID }

// TrySend enqueues an event without blocking, mirroring the WebSocket client.
func (s *BotService) TrySend(ev models.Event) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.send <- ev:
		return true
	case <-s.done:
		return false
	default:
		return false
	}
}

// Close stops the relay loop. Idempotent.
func (s *BotService) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// Run subscribes to every staff role group and relays events until Close.
// Blocks; run it in its own goroutine from the composition root.
func (s *BotService) Run() {
	s.Hub.Subscribe(s,
		notifyhub.RoleKey(models.RoleAcademicOffice),
		notifyhub.RoleKey(models.RoleSupport),
		notifyhub.RoleKey(models.RoleTutor),
		notifyhub.RoleKey(models.RoleAdmin),
	)
	defer s.Hub.Unsubscribe(s)

	for {
		select {
		case ev := <-s.send:
			if ev.Type != models.EventNotification || ev.Notification == nil {
				continue
			}
			s.forward(ev.Notification)
		case <-s.done:
			return
		}
	}
}

func (s *BotService) forward(n *models.Notification) {
	text := fmt.Sprintf("[%s] %s\ncomplaint: %s", n.Type, n.Message, n.ComplaintID)
	msg := tgbotapi.NewMessage(s.ChatID, text)
	if _, err := s.BotAPI.Send(msg); err != nil {
		log.Printf("ERROR: Failed to forward notification to Telegram: %v", err)
	}
}
