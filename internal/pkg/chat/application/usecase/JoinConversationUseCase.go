package usecase

import (
	"context"
	"fmt"
	"time"

	chat "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/domain"
	repository "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/persistence/repository/port"
)

// JoinConversationInput validates a request to attach a live connection to a
// conversation's broadcast group.
type JoinConversationInput struct {
	ConversationID string
	UserID         string
}

// JoinConversationUseCase is the membership guard for the realtime path: a
// connection may only join the broadcast group of a conversation its user
// participates in. Joining also bumps the participant's presence timestamp.
type JoinConversationUseCase struct {
	Repo repository.ChatRepository
}

func NewJoinConversationUseCase(repo repository.ChatRepository) *JoinConversationUseCase {
	return &JoinConversationUseCase{Repo: repo}
}

func (uc *JoinConversationUseCase) Execute(ctx context.Context, in JoinConversationInput) error {
	if in.ConversationID == "" || in.UserID == "" {
		return fmt.Errorf("conversation_id and user_id are required")
	}

	ok, err := uc.Repo.IsParticipant(ctx, in.ConversationID, in.UserID)
	if err != nil {
		return wrapStoreError(err)
	}
	if !ok {
		return chat.ErrNotParticipant
	}

	if err := uc.Repo.TouchLastSeen(ctx, in.ConversationID, in.UserID, time.Now().UTC()); err != nil {
		return wrapStoreError(err)
	}
	return nil
}

// Touch bumps the presence timestamp without the membership check. Used on
// disconnect, where failure must not block teardown; callers ignore the error
// beyond logging.
func (uc *JoinConversationUseCase) Touch(ctx context.Context, conversationID, userID string) error {
	return uc.Repo.TouchLastSeen(ctx, conversationID, userID, time.Now().UTC())
}
