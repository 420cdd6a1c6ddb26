package chat

import (
	"strings"
	"time"
)

// Message is an append-only log entry in a conversation.
//
// ParentID is an optional reply link to another message in the same
// conversation. It is a plain id reference, not an owning pointer: deleting
// the parent clears the link on its replies instead of cascading.
//
// Messages are never physically removed; DeleteMessage flips IsDeleted and
// EditMessage rewrites Content only. Everything else is immutable.
type Message struct {
	ID             string    `db:"id"`
	ConversationID string    `db:"conversation_id"`
	SenderID       string    `db:"sender_id"`
	Content        string    `db:"content"`
	ParentID       *string   `db:"parent_id"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
	IsDeleted      bool      `db:"is_deleted"`
}

// NewMessage validates and normalizes a candidate message before persistence.
// Content is trimmed; whitespace-only content is rejected with ErrEmptyContent.
// CreatedAt is left zero so the store can assign a monotonic timestamp.
func NewMessage(conversationID, senderID, content string, parentID *string) (*Message, error) {
	if conversationID == "" || senderID == "" {
		return nil, ErrMissingIdentity
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrEmptyContent
	}

	if parentID != nil && *parentID == "" {
		parentID = nil
	}

	return &Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        trimmed,
		ParentID:       parentID,
	}, nil
}
