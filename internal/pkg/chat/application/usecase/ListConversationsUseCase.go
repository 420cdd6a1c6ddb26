package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/domain"
	repository "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/persistence/repository/port"
)

// ListConversationsUseCase returns every conversation the user belongs to,
// newest activity first, with per-conversation unread counters.
type ListConversationsUseCase struct {
	Repo repository.ChatRepository
}

func NewListConversationsUseCase(repo repository.ChatRepository) *ListConversationsUseCase {
	return &ListConversationsUseCase{Repo: repo}
}

func (uc *ListConversationsUseCase) Execute(ctx context.Context, userID string) ([]chat.ConversationSummary, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	summaries, err := uc.Repo.ListConversationsForUser(ctx, userID)
	if errors.Is(err, repository.ErrTransient) {
		// idempotent read, retry once
		summaries, err = uc.Repo.ListConversationsForUser(ctx, userID)
	}
	if err != nil {
		return nil, wrapStoreError(err)
	}
	return summaries, nil
}
