package usecase

import (
	"context"
	"fmt"
	"time"

	chat "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/domain"
	repository "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/persistence/repository/port"
)

// MarkReadInput identifies the participant whose read cursor advances.
type MarkReadInput struct {
	ConversationID string
	UserID         string
}

// MarkReadUseCase advances a participant's read cursor to now. Repeated calls
// are idempotent and the cursor never regresses: the store takes
// max(current, now), so a stale concurrent call cannot overwrite a later one.
type MarkReadUseCase struct {
	Repo repository.ChatRepository
}

func NewMarkReadUseCase(repo repository.ChatRepository) *MarkReadUseCase {
	return &MarkReadUseCase{Repo: repo}
}

// Execute returns the stored cursor value after the advance.
func (uc *MarkReadUseCase) Execute(ctx context.Context, in MarkReadInput) (time.Time, error) {
	if in.ConversationID == "" || in.UserID == "" {
		return time.Time{}, fmt.Errorf("conversation_id and user_id are required")
	}

	ok, err := uc.Repo.IsParticipant(ctx, in.ConversationID, in.UserID)
	if err != nil {
		return time.Time{}, wrapStoreError(err)
	}
	if !ok {
		return time.Time{}, chat.ErrNotParticipant
	}

	stored, err := uc.Repo.MarkRead(ctx, in.ConversationID, in.UserID, time.Now().UTC())
	if err != nil {
		return time.Time{}, wrapStoreError(err)
	}
	return stored, nil
}
