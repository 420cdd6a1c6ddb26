package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/domain"
	repository "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/persistence/repository/port"
)

// GetMessageInput carries parameters to fetch messages of a conversation.
type GetMessageInput struct {
	ConversationID string
	RequesterID    string
	Limit          int
	Offset         int
}

// GetMessageUseCase fetches the message log of a conversation, ascending by
// creation time then id, after the membership check.
type GetMessageUseCase struct {
	Repo repository.ChatRepository
}

func NewGetMessageUseCase(repo repository.ChatRepository) *GetMessageUseCase {
	return &GetMessageUseCase{Repo: repo}
}

func (uc *GetMessageUseCase) Execute(ctx context.Context, in GetMessageInput) ([]chat.Message, error) {
	if in.ConversationID == "" || in.RequesterID == "" {
		return nil, fmt.Errorf("conversation_id and requester are required")
	}

	ok, err := uc.Repo.IsParticipant(ctx, in.ConversationID, in.RequesterID)
	if err != nil {
		return nil, wrapStoreError(err)
	}
	if !ok {
		return nil, chat.ErrNotParticipant
	}

	msgs, err := uc.Repo.GetMessagesByConversation(ctx, in.ConversationID, in.Limit, in.Offset)
	if errors.Is(err, repository.ErrTransient) {
		// idempotent read, retry once
		msgs, err = uc.Repo.GetMessagesByConversation(ctx, in.ConversationID, in.Limit, in.Offset)
	}
	if err != nil {
		return nil, wrapStoreError(err)
	}
	return msgs, nil
}
