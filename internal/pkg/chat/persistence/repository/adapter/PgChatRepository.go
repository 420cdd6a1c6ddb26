package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/domain"
	repository "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/persistence/repository/port"
)

type PgChatRepository struct {
	pool *pgxpool.Pool
}

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

// Ensure interface is satisfied
var _ repository.ChatRepository = (*PgChatRepository)(nil)

// findDirectSQL matches a direct conversation whose participant set is exactly
// the given pair. The count subquery guards against a group row that happens
// to contain both users.
const findDirectSQL = `
	SELECT c.id::text, c.kind, c.title, c.created_by::text, c.created_at, c.last_message_at
	FROM conversations c
	JOIN participants pa ON pa.conversation_id = c.id AND pa.user_id = $1::uuid
	JOIN participants pb ON pb.conversation_id = c.id AND pb.user_id = $2::uuid
	WHERE c.kind = 'direct'
	  AND (SELECT count(*) FROM participants p WHERE p.conversation_id = c.id) = 2
	LIMIT 1
`

func (r *PgChatRepository) FindDirectConversation(ctx context.Context, userA, userB string) (*chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	conv, err := scanConversation(r.pool.QueryRow(ctx, findDirectSQL, userA, userB))
	if err != nil {
		return nil, mapPgError(err)
	}
	return conv, nil
}

func (r *PgChatRepository) CreateDirectConversation(ctx context.Context, userA, userB string) (*chat.Conversation, bool, error) {
	if r == nil || r.pool == nil {
		return nil, false, errors.New("PgChatRepository: nil pool")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, false, mapPgError(err)
	}
	defer tx.Rollback(ctx)

	// Serialize on the pair across every connection and process. The re-check
	// below is a plain SELECT under READ COMMITTED and cannot see a concurrent
	// uncommitted insert, and no storage uniqueness covers the direct pair, so
	// without this lock two racing transactions could both insert. The lock is
	// transaction-scoped and released on commit or rollback.
	if _, err := tx.Exec(ctx, `
		SELECT pg_advisory_xact_lock(hashtextextended($1, 0))
	`, directPairKey(userA, userB)); err != nil {
		return nil, false, mapPgError(err)
	}

	// Re-check under the lock: a concurrent creator committed before releasing
	// it, so its row is visible here. The loser adopts the winner's row
	// instead of producing a duplicate.
	existing, err := scanConversation(tx.QueryRow(ctx, findDirectSQL, userA, userB))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, mapPgError(err)
	}

	conv, err := scanConversation(tx.QueryRow(ctx, `
		INSERT INTO conversations (kind) VALUES ('direct')
		RETURNING id::text, kind, title, created_by::text, created_at, last_message_at
	`))
	if err != nil {
		return nil, false, mapPgError(err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO participants (conversation_id, user_id)
		VALUES ($1::uuid, $2::uuid), ($1::uuid, $3::uuid)
	`, conv.ID, userA, userB); err != nil {
		return nil, false, mapPgError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, mapPgError(err)
	}
	return conv, true, nil
}

func (r *PgChatRepository) CreateGroupConversation(ctx context.Context, creatorID, title string, memberIDs []string) (*chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer tx.Rollback(ctx)

	conv, err := scanConversation(tx.QueryRow(ctx, `
		INSERT INTO conversations (kind, title, created_by) VALUES ('group', $1, $2::uuid)
		RETURNING id::text, kind, title, created_by::text, created_at, last_message_at
	`, title, creatorID))
	if err != nil {
		return nil, mapPgError(err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO participants (conversation_id, user_id, is_admin)
		VALUES ($1::uuid, $2::uuid, true)
	`, conv.ID, creatorID); err != nil {
		return nil, mapPgError(err)
	}
	for _, uid := range memberIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO participants (conversation_id, user_id)
			VALUES ($1::uuid, $2::uuid)
			ON CONFLICT (conversation_id, user_id) DO NOTHING
		`, conv.ID, uid); err != nil {
			return nil, mapPgError(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, mapPgError(err)
	}
	return conv, nil
}

func (r *PgChatRepository) ListConversationsForUser(ctx context.Context, userID string) ([]chat.ConversationSummary, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT c.id::text, c.kind, c.title, c.created_by::text, c.created_at, c.last_message_at,
		       (SELECT count(*) FROM messages m
		        WHERE m.conversation_id = c.id
		          AND m.sender_id <> $1::uuid
		          AND NOT m.is_deleted
		          AND m.created_at > COALESCE(p.last_read_at, '-infinity'::timestamptz)) AS unread_count
		FROM conversations c
		JOIN participants p ON p.conversation_id = c.id AND p.user_id = $1::uuid
		ORDER BY c.last_message_at DESC NULLS LAST, c.created_at DESC, c.id DESC
	`, userID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var summaries []chat.ConversationSummary
	for rows.Next() {
		var s chat.ConversationSummary
		if err := rows.Scan(&s.ID, &s.Kind, &s.Title, &s.CreatedBy, &s.CreatedAt, &s.LastMessageAt, &s.UnreadCount); err != nil {
			return nil, mapPgError(err)
		}
		summaries = append(summaries, s)
	}
	if rows.Err() != nil {
		return nil, mapPgError(rows.Err())
	}
	return summaries, nil
}

func (r *PgChatRepository) IsParticipant(ctx context.Context, conversationID, userID string) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgChatRepository: nil pool")
	}
	var ok bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM participants
			WHERE conversation_id = $1::uuid AND user_id = $2::uuid
		)
	`, conversationID, userID).Scan(&ok)
	if err != nil {
		return false, mapPgError(err)
	}
	return ok, nil
}

func (r *PgChatRepository) ListParticipants(ctx context.Context, conversationID string) ([]chat.Participant, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT conversation_id::text, user_id::text, is_admin, joined_at, last_read_at, last_seen_at
		FROM participants
		WHERE conversation_id = $1::uuid
		ORDER BY joined_at
	`, conversationID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var parts []chat.Participant
	for rows.Next() {
		var p chat.Participant
		if err := rows.Scan(&p.ConversationID, &p.UserID, &p.IsAdmin, &p.JoinedAt, &p.LastReadAt, &p.LastSeenAt); err != nil {
			return nil, mapPgError(err)
		}
		parts = append(parts, p)
	}
	if rows.Err() != nil {
		return nil, mapPgError(rows.Err())
	}
	return parts, nil
}

func (r *PgChatRepository) MarkRead(ctx context.Context, conversationID, userID string, now time.Time) (time.Time, error) {
	if r == nil || r.pool == nil {
		return time.Time{}, errors.New("PgChatRepository: nil pool")
	}
	// GREATEST keeps the cursor monotonic under concurrent stale callers.
	var stored time.Time
	err := r.pool.QueryRow(ctx, `
		UPDATE participants
		SET last_read_at = GREATEST(COALESCE(last_read_at, 'epoch'::timestamptz), $3)
		WHERE conversation_id = $1::uuid AND user_id = $2::uuid
		RETURNING last_read_at
	`, conversationID, userID, now).Scan(&stored)
	if err != nil {
		return time.Time{}, mapPgError(err)
	}
	return stored, nil
}

func (r *PgChatRepository) TouchLastSeen(ctx context.Context, conversationID, userID string, now time.Time) error {
	if r == nil || r.pool == nil {
		return errors.New("PgChatRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE participants
		SET last_seen_at = GREATEST(COALESCE(last_seen_at, 'epoch'::timestamptz), $3)
		WHERE conversation_id = $1::uuid AND user_id = $2::uuid
	`, conversationID, userID, now)
	if err != nil {
		return mapPgError(err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PgChatRepository) UnreadCount(ctx context.Context, conversationID, userID string) (int, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgChatRepository: nil pool")
	}
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM messages m
		JOIN participants p ON p.conversation_id = m.conversation_id AND p.user_id = $2::uuid
		WHERE m.conversation_id = $1::uuid
		  AND m.sender_id <> $2::uuid
		  AND NOT m.is_deleted
		  AND m.created_at > COALESCE(p.last_read_at, '-infinity'::timestamptz)
	`, conversationID, userID).Scan(&count)
	if err != nil {
		return 0, mapPgError(err)
	}
	return count, nil
}

func (r *PgChatRepository) SaveMessage(ctx context.Context, m chat.Message) (*chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer tx.Rollback(ctx)

	stored, err := scanMessage(tx.QueryRow(ctx, `
		INSERT INTO messages (conversation_id, sender_id, content, parent_id)
		VALUES ($1::uuid, $2::uuid, $3, $4::uuid)
		RETURNING id::text, conversation_id::text, sender_id::text, content, parent_id::text, created_at, updated_at, is_deleted
	`, m.ConversationID, m.SenderID, m.Content, m.ParentID))
	if err != nil {
		return nil, mapPgError(err)
	}

	// Freshness bump shares the transaction with the insert so the
	// conversation can never appear stale after a committed send.
	if _, err := tx.Exec(ctx, `
		UPDATE conversations SET last_message_at = $2 WHERE id = $1::uuid
	`, stored.ConversationID, stored.CreatedAt); err != nil {
		return nil, mapPgError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, mapPgError(err)
	}
	return stored, nil
}

func (r *PgChatRepository) GetMessage(ctx context.Context, id string) (*chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	msg, err := scanMessage(r.pool.QueryRow(ctx, `
		SELECT id::text, conversation_id::text, sender_id::text, content, parent_id::text, created_at, updated_at, is_deleted
		FROM messages
		WHERE id = $1::uuid
	`, id))
	if err != nil {
		return nil, mapPgError(err)
	}
	return msg, nil
}

func (r *PgChatRepository) GetMessagesByConversation(ctx context.Context, conversationID string, limit, offset int) ([]chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, conversation_id::text, sender_id::text, content, parent_id::text, created_at, updated_at, is_deleted
		FROM messages
		WHERE conversation_id = $1::uuid
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3
	`, conversationID, limit, offset)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var m chat.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.ParentID, &m.CreatedAt, &m.UpdatedAt, &m.IsDeleted); err != nil {
			return nil, mapPgError(err)
		}
		msgs = append(msgs, m)
	}
	if rows.Err() != nil {
		return nil, mapPgError(rows.Err())
	}
	return msgs, nil
}

func (r *PgChatRepository) UpdateMessageContent(ctx context.Context, id, senderID, content string) (*chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	msg, err := scanMessage(r.pool.QueryRow(ctx, `
		UPDATE messages
		SET content = $3, updated_at = now()
		WHERE id = $1::uuid AND sender_id = $2::uuid AND NOT is_deleted
		RETURNING id::text, conversation_id::text, sender_id::text, content, parent_id::text, created_at, updated_at, is_deleted
	`, id, senderID, content))
	if err != nil {
		return nil, mapPgError(err)
	}
	return msg, nil
}

func (r *PgChatRepository) SoftDeleteMessage(ctx context.Context, id, senderID string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgChatRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE messages SET is_deleted = true, updated_at = now()
		WHERE id = $1::uuid AND sender_id = $2::uuid
	`, id, senderID)
	if err != nil {
		return mapPgError(err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// directPairKey builds the advisory-lock key for an unordered user pair, so
// (a,b) and (b,a) hash to the same lock.
func directPairKey(userA, userB string) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return "direct:" + userA + ":" + userB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConversation(row rowScanner) (*chat.Conversation, error) {
	var c chat.Conversation
	if err := row.Scan(&c.ID, &c.Kind, &c.Title, &c.CreatedBy, &c.CreatedAt, &c.LastMessageAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanMessage(row rowScanner) (*chat.Message, error) {
	var m chat.Message
	if err := row.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.ParentID, &m.CreatedAt, &m.UpdatedAt, &m.IsDeleted); err != nil {
		return nil, err
	}
	return &m, nil
}

// mapPgError folds driver failures into the repository's sentinel errors.
// Serialization failures, deadlocks and statement timeouts are retryable.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "57014":
			return fmt.Errorf("%w: %v", repository.ErrTransient, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", repository.ErrTransient, err)
	}
	return err
}
