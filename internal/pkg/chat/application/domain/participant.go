package chat

import "time"

// Participant captures one user's membership and read/presence state in a
// conversation.
// Primary key: (ConversationID, UserID)
//
// LastReadAt is the user's read cursor: messages from other senders created
// strictly after it count as unread. LastSeenAt tracks realtime presence and
// is bumped on socket join/leave. Both are updated monotonically so a stale
// concurrent writer can never move either cursor backwards.
type Participant struct {
	ConversationID string     `db:"conversation_id"`
	UserID         string     `db:"user_id"`
	IsAdmin        bool       `db:"is_admin"`
	JoinedAt       time.Time  `db:"joined_at"`
	LastReadAt     *time.Time `db:"last_read_at"`
	LastSeenAt     *time.Time `db:"last_seen_at"`
}
