package usecase

import (
	"context"
	"fmt"

	chat "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/domain"
	repository "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/persistence/repository/port"
)

// ListParticipantsInput wraps the conversation identifier and the requesting
// user to fetch the member roster.
type ListParticipantsInput struct {
	ConversationID string
	RequesterID    string
}

// ListParticipantsUseCase returns the membership rows of a conversation.
// Only participants may see the roster.
type ListParticipantsUseCase struct {
	Repo repository.ChatRepository
}

func NewListParticipantsUseCase(repo repository.ChatRepository) *ListParticipantsUseCase {
	return &ListParticipantsUseCase{Repo: repo}
}

func (uc *ListParticipantsUseCase) Execute(ctx context.Context, in ListParticipantsInput) ([]chat.Participant, error) {
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

	parts, err := uc.Repo.ListParticipants(ctx, in.ConversationID)
	if err != nil {
		return nil, wrapStoreError(err)
	}
	return parts, nil
}
