package usecase

import (
	"context"
	"fmt"
	"strings"

	chat "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/domain"
	repository "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/persistence/repository/port"
)

// EditMessageInput carries a content-only rewrite of an existing message.
type EditMessageInput struct {
	MessageID   string
	RequesterID string
	Content     string
}

// EditMessageUseCase rewrites a message's content. Only the sender may edit,
// and only the content changes; everything else on the row is immutable.
type EditMessageUseCase struct {
	Repo repository.ChatRepository
}

func NewEditMessageUseCase(repo repository.ChatRepository) *EditMessageUseCase {
	return &EditMessageUseCase{Repo: repo}
}

func (uc *EditMessageUseCase) Execute(ctx context.Context, in EditMessageInput) (*chat.Message, error) {
	if in.MessageID == "" || in.RequesterID == "" {
		return nil, fmt.Errorf("message_id and requester are required")
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, chat.ErrEmptyContent
	}

	msg, err := uc.Repo.GetMessage(ctx, in.MessageID)
	if err != nil {
		return nil, wrapStoreError(err)
	}
	if msg.SenderID != in.RequesterID {
		return nil, chat.ErrNotSender
	}

	updated, err := uc.Repo.UpdateMessageContent(ctx, in.MessageID, in.RequesterID, content)
	if err != nil {
		return nil, wrapStoreError(err)
	}
	return updated, nil
}
