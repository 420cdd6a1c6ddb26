package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate applies the idempotent schema bootstrap. Messages keep a plain id
// reference to their reply parent: ON DELETE SET NULL clears the link instead
// of cascading through reply chains.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto`,

		`CREATE TABLE IF NOT EXISTS users (
			id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			username varchar(150) UNIQUE NOT NULL,
			last_seen timestamptz,
			created_at timestamptz NOT NULL DEFAULT now()
		)`,

		`CREATE TABLE IF NOT EXISTS conversations (
			id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			kind varchar(10) NOT NULL CHECK (kind IN ('direct', 'group')),
			title varchar(255) NOT NULL DEFAULT '',
			created_by uuid REFERENCES users(id) ON DELETE SET NULL,
			created_at timestamptz NOT NULL DEFAULT now(),
			last_message_at timestamptz
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_kind_activity
			ON conversations (kind, last_message_at)`,

		`CREATE TABLE IF NOT EXISTS participants (
			conversation_id uuid NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
			user_id uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			is_admin boolean NOT NULL DEFAULT false,
			joined_at timestamptz NOT NULL DEFAULT now(),
			last_read_at timestamptz,
			last_seen_at timestamptz,
			PRIMARY KEY (conversation_id, user_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_participants_user
			ON participants (user_id, conversation_id)`,

		`CREATE TABLE IF NOT EXISTS messages (
			id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			conversation_id uuid NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
			sender_id uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			content text NOT NULL,
			parent_id uuid REFERENCES messages(id) ON DELETE SET NULL,
			created_at timestamptz NOT NULL DEFAULT now(),
			updated_at timestamptz NOT NULL DEFAULT now(),
			is_deleted boolean NOT NULL DEFAULT false
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conversation_created
			ON messages (conversation_id, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: migrate: %w", err)
		}
	}
	return nil
}
