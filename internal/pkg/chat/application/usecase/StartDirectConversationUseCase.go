package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/domain"
	repository "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/persistence/repository/port"
	userrepo "github.com/Solvit-Africa-Training-Center/chat-api/internal/repository/port"
)

// StartDirectConversationInput identifies the requester and the peer to open
// (or reuse) a direct conversation with.
type StartDirectConversationInput struct {
	RequesterID string
	OtherUserID string
}

// StartDirectConversationUseCase implements get-or-create semantics for
// direct conversations: at most one conversation exists per unordered user
// pair, and concurrent callers for the same pair all end up on the same row
// with exactly one of them observing created=true.
type StartDirectConversationUseCase struct {
	Repo  repository.ChatRepository
	Users userrepo.UserRepository

	locks *pairLocks
}

func NewStartDirectConversationUseCase(repo repository.ChatRepository, users userrepo.UserRepository) *StartDirectConversationUseCase {
	return &StartDirectConversationUseCase{Repo: repo, Users: users, locks: directPairLocks}
}

// Execute returns the pair's direct conversation and whether this call
// created it.
func (uc *StartDirectConversationUseCase) Execute(ctx context.Context, in StartDirectConversationInput) (*chat.Conversation, bool, error) {
	if in.RequesterID == "" || in.OtherUserID == "" {
		return nil, false, fmt.Errorf("requester and other_user_id are required")
	}
	if in.RequesterID == in.OtherUserID {
		return nil, false, chat.ErrSelfConversation
	}

	if _, err := uc.Users.GetByID(ctx, in.OtherUserID); err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return nil, false, fmt.Errorf("%w: user %s", ErrNotFound, in.OtherUserID)
		}
		return nil, false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	unlock := uc.locks.lock(in.RequesterID, in.OtherUserID)
	defer unlock()

	conv, err := uc.Repo.FindDirectConversation(ctx, in.RequesterID, in.OtherUserID)
	if err == nil {
		return conv, false, nil
	}
	if errors.Is(err, repository.ErrTransient) {
		// lookup is idempotent, retry once
		conv, err = uc.Repo.FindDirectConversation(ctx, in.RequesterID, in.OtherUserID)
		if err == nil {
			return conv, false, nil
		}
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, wrapStoreError(err)
	}

	conv, created, err := uc.Repo.CreateDirectConversation(ctx, in.RequesterID, in.OtherUserID)
	if err != nil {
		return nil, false, wrapStoreError(err)
	}
	return conv, created, nil
}

// wrapStoreError translates repository sentinels into the use-case taxonomy.
func wrapStoreError(err error) error {
	switch {
	case errors.Is(err, repository.ErrTransient):
		return fmt.Errorf("%w: %v", ErrTransient, err)
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	default:
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
}
