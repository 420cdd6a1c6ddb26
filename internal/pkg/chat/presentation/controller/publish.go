package controller

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/Solvit-Africa-Training-Center/chat-api/internal/infrastructure/realtime"
	qport "github.com/Solvit-Africa-Training-Center/chat-api/internal/infrastructure/queue/port"
	chat "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/domain"
	"github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/task"
)

// createdEvent is the frame fanned out to a conversation's broadcast group
// after a message commits.
type createdEvent struct {
	Type    string         `json:"type"`
	Message messagePayload `json:"message"`
}

type messagePayload struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Content        string    `json:"content"`
	ParentID       *string   `json:"parent_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toPayload(m *chat.Message) messagePayload {
	return messagePayload{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		ParentID:       m.ParentID,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// publishCreated runs the post-commit side effects of a send: fan-out to the
// conversation's live connections (including the sender's other connections)
// and the offline-notification task. Both are best-effort; the message is
// already durable.
func publishCreated(hub *realtime.Hub, q qport.Client, msg *chat.Message) {
	payload, err := json.Marshal(createdEvent{Type: "message.created", Message: toPayload(msg)})
	if err != nil {
		log.Printf("publish: encode message %s: %v", msg.ID, err)
		return
	}
	hub.Broadcast(msg.ConversationID, payload)

	if q != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := task.EnqueueNotifyMessage(ctx, q, msg); err != nil {
			log.Printf("publish: enqueue notify for message %s: %v", msg.ID, err)
		}
	}
}
