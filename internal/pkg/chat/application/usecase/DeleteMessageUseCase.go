package usecase

import (
	"context"
	"fmt"

	chat "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/domain"
	repository "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/persistence/repository/port"
)

// DeleteMessageInput identifies the message to soft-delete.
type DeleteMessageInput struct {
	MessageID   string
	RequesterID string
}

// DeleteMessageUseCase flags a message as deleted. The row stays in place so
// reply links keep resolving; deleted messages stop counting as unread.
type DeleteMessageUseCase struct {
	Repo repository.ChatRepository
}

func NewDeleteMessageUseCase(repo repository.ChatRepository) *DeleteMessageUseCase {
	return &DeleteMessageUseCase{Repo: repo}
}

func (uc *DeleteMessageUseCase) Execute(ctx context.Context, in DeleteMessageInput) error {
	if in.MessageID == "" || in.RequesterID == "" {
		return fmt.Errorf("message_id and requester are required")
	}

	msg, err := uc.Repo.GetMessage(ctx, in.MessageID)
	if err != nil {
		return wrapStoreError(err)
	}
	if msg.SenderID != in.RequesterID {
		return chat.ErrNotSender
	}

	if err := uc.Repo.SoftDeleteMessage(ctx, in.MessageID, in.RequesterID); err != nil {
		return wrapStoreError(err)
	}
	return nil
}
