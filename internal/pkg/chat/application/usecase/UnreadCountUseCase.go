package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/domain"
	repository "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/persistence/repository/port"
)

// UnreadCountInput identifies the participant whose unread counter to compute.
type UnreadCountInput struct {
	ConversationID string
	UserID         string
}

// UnreadCountUseCase counts messages from other senders created strictly
// after the participant's read cursor. An unset cursor counts everything.
type UnreadCountUseCase struct {
	Repo repository.ChatRepository
}

func NewUnreadCountUseCase(repo repository.ChatRepository) *UnreadCountUseCase {
	return &UnreadCountUseCase{Repo: repo}
}

func (uc *UnreadCountUseCase) Execute(ctx context.Context, in UnreadCountInput) (int, error) {
	if in.ConversationID == "" || in.UserID == "" {
		return 0, fmt.Errorf("conversation_id and user_id are required")
	}

	ok, err := uc.Repo.IsParticipant(ctx, in.ConversationID, in.UserID)
	if err != nil {
		return 0, wrapStoreError(err)
	}
	if !ok {
		return 0, chat.ErrNotParticipant
	}

	count, err := uc.Repo.UnreadCount(ctx, in.ConversationID, in.UserID)
	if errors.Is(err, repository.ErrTransient) {
		// idempotent read, retry once
		count, err = uc.Repo.UnreadCount(ctx, in.ConversationID, in.UserID)
	}
	if err != nil {
		return 0, wrapStoreError(err)
	}
	return count, nil
}
