package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	cacheport "github.com/Solvit-Africa-Training-Center/chat-api/internal/infrastructure/cache/port"
	qport "github.com/Solvit-Africa-Training-Center/chat-api/internal/infrastructure/queue/port"
	chat "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/domain"
	repoAdapter "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/persistence/repository/adapter"
)

// NotifyMessageTaskType is the queue task name for notifying conversation
// members about a committed message.
const NotifyMessageTaskType = "chat:notify_message"

// notifyDebounceTTL bounds how often one member gets notified about the same
// conversation.
const notifyDebounceTTL = 5 * time.Minute

// NotifyMessagePayload is the JSON payload transported via the queue.
type NotifyMessagePayload struct {
	MessageID      string `json:"messageId"`
	ConversationID string `json:"conversationId"`
	SenderID       string `json:"senderId"`
}

// Presence answers whether a user currently holds a live connection in a
// conversation's broadcast group; such users already saw the message.
type Presence interface {
	HasUser(conversationID, userID string) bool
}

// EnqueueNotifyMessage schedules the notification fan-out for a committed
// message. Best-effort: enqueue failures are the caller's to log, a missed
// notification never fails a send.
func EnqueueNotifyMessage(ctx context.Context, q qport.Client, msg *chat.Message) error {
	payload, err := json.Marshal(NotifyMessagePayload{
		MessageID:      msg.ID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
	})
	if err != nil {
		return err
	}
	_, err = q.Enqueue(ctx, qport.Task{Type: NotifyMessageTaskType, Payload: payload},
		qport.EnqueueOption{Queue: "chat", MaxRetry: 5})
	return err
}

// RegisterNotifyMessageTask binds the notification handler to the worker
// server. For every participant who is neither the sender nor currently
// connected, it records a notification intent for the external mail relay,
// debounced per (conversation, user) through the cache.
func RegisterNotifyMessageTask(srv qport.Server, pool *pgxpool.Pool, cache cacheport.Cache, presence Presence) {
	srv.Register(NotifyMessageTaskType, func(ctx context.Context, t qport.Task) error {
		var p NotifyMessagePayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: do not retry indefinitely
			return err
		}

		repo := repoAdapter.NewPgChatRepository(pool)

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		participants, err := repo.ListParticipants(ctx, p.ConversationID)
		if err != nil {
			return err
		}

		for _, member := range participants {
			if member.UserID == p.SenderID {
				continue
			}
			if presence != nil && presence.HasUser(p.ConversationID, member.UserID) {
				continue
			}

			key := fmt.Sprintf("notify:%s:%s", p.ConversationID, member.UserID)
			if _, err := cache.Get(ctx, key); err == nil {
				continue // notified recently
			} else if !errors.Is(err, cacheport.ErrMiss) {
				return err
			}

			if err := cache.Set(ctx, key, p.MessageID, notifyDebounceTTL); err != nil {
				return err
			}
			// The mail relay consumes these records; delivery itself lives
			// outside this service.
			log.Printf("notify: user=%s conversation=%s message=%s", member.UserID, p.ConversationID, p.MessageID)
		}
		return nil
	})
}
