package chat

import "time"

// ConversationKind distinguishes 1:1 conversations from explicitly created groups.
type ConversationKind string

const (
	KindDirect ConversationKind = "direct"
	KindGroup  ConversationKind = "group"
)

// Conversation is a messaging thread between two or more users.
//
// Invariants:
//   - exactly one direct-kind conversation exists per unordered user pair;
//     the application layer enforces this since membership lives in a
//     separate join table and storage uniqueness alone cannot express it.
//   - LastMessageAt always matches the CreatedAt of the newest message; it is
//     updated in the same transaction that inserts the message.
type Conversation struct {
	ID            string           `db:"id"`
	Kind          ConversationKind `db:"kind"`
	Title         string           `db:"title"`
	CreatedBy     *string          `db:"created_by"`
	CreatedAt     time.Time        `db:"created_at"`
	LastMessageAt *time.Time       `db:"last_message_at"`
}

// ConversationSummary is a conversation as seen by one user: the row itself
// plus that user's unread counter. Used by the list endpoint.
type ConversationSummary struct {
	Conversation
	UnreadCount int
}
