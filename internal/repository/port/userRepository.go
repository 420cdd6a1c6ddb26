package repository

import (
	"context"
	"errors"
	"time"
)

// User is the slice of the external account entity the chat core needs:
// a stable identifier and a display name. Account lifecycle lives elsewhere.
type User struct {
	ID       string     `db:"id"`
	Username string     `db:"username"`
	LastSeen *time.Time `db:"last_seen"`
}

// ErrNotFound signals the user does not exist.
var ErrNotFound = errors.New("user repository: not found")

// UserRepository resolves user references coming in from the API boundary.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
}
