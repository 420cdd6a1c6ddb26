package chat

import "errors"

// Domain-level errors for chat behaviors
var (
	ErrSelfConversation = errors.New("chat: cannot start a direct conversation with yourself")
	ErrNotParticipant   = errors.New("chat: user is not a participant in the conversation")
	ErrEmptyContent     = errors.New("chat: message content is empty")
	ErrParentMismatch   = errors.New("chat: parent message belongs to a different conversation")
	ErrNotSender        = errors.New("chat: only the sender may modify a message")
	ErrMissingIdentity  = errors.New("chat: conversation_id and sender_id are required")
)
