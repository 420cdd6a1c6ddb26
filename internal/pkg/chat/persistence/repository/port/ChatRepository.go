package repository

import (
	"context"
	"errors"
	"time"

	chat "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/domain"
)

// Sentinel errors adapters must map their backend failures onto so use cases
// can branch without importing driver packages.
var (
	// ErrNotFound signals the referenced row does not exist.
	ErrNotFound = errors.New("chat repository: not found")
	// ErrTransient signals a timeout/deadlock/serialization failure that a
	// caller may retry. Idempotent reads retry once; writes surface it.
	ErrTransient = errors.New("chat repository: transient failure")
)

// ChatRepository defines persistence operations for the chat domain.
// All mutating operations that touch more than one row run in a single
// transaction on the adapter side.
type ChatRepository interface {
	// FindDirectConversation returns the direct conversation whose participant
	// set is exactly {userA, userB}, or ErrNotFound. The exact-count match
	// matters: "contains both" alone could false-match a group.
	FindDirectConversation(ctx context.Context, userA, userB string) (*chat.Conversation, error)

	// CreateDirectConversation creates a direct conversation with both
	// participant rows atomically. It re-checks for an existing pair inside
	// the transaction; when a concurrent creator won the race, the winner's
	// row is returned with created=false instead of an error.
	CreateDirectConversation(ctx context.Context, userA, userB string) (*chat.Conversation, bool, error)

	// CreateGroupConversation creates a group conversation with the creator as
	// admin plus the given members, all in one transaction. memberIDs must not
	// contain the creator.
	CreateGroupConversation(ctx context.Context, creatorID, title string, memberIDs []string) (*chat.Conversation, error)

	// ListConversationsForUser returns every conversation the user belongs to,
	// newest activity first (conversations without messages last, newest
	// created first among them), with the user's unread counter attached.
	ListConversationsForUser(ctx context.Context, userID string) ([]chat.ConversationSummary, error)

	IsParticipant(ctx context.Context, conversationID, userID string) (bool, error)
	ListParticipants(ctx context.Context, conversationID string) ([]chat.Participant, error)

	// MarkRead advances the participant's read cursor to max(current, now) and
	// returns the stored value. ErrNotFound when the participant row is absent.
	MarkRead(ctx context.Context, conversationID, userID string, now time.Time) (time.Time, error)

	// TouchLastSeen bumps the participant's presence timestamp, monotonically.
	TouchLastSeen(ctx context.Context, conversationID, userID string, now time.Time) error

	// UnreadCount counts messages from other senders created strictly after
	// the participant's read cursor (all of them when the cursor is unset).
	UnreadCount(ctx context.Context, conversationID, userID string) (int, error)

	// SaveMessage inserts the message and bumps the conversation's
	// last_message_at to the message's creation timestamp in one transaction,
	// returning the stored row with id and timestamps assigned.
	SaveMessage(ctx context.Context, m chat.Message) (*chat.Message, error)

	GetMessage(ctx context.Context, id string) (*chat.Message, error)
	GetMessagesByConversation(ctx context.Context, conversationID string, limit, offset int) ([]chat.Message, error)

	// UpdateMessageContent rewrites the content of a message. ErrNotFound when
	// the message does not exist or senderID does not match.
	UpdateMessageContent(ctx context.Context, id, senderID, content string) (*chat.Message, error)

	// SoftDeleteMessage flips the deleted flag; the row stays in place and
	// reply links to it survive.
	SoftDeleteMessage(ctx context.Context, id, senderID string) error
}
