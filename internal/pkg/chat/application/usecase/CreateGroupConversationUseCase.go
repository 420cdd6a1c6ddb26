package usecase

import (
	"context"
	"fmt"
	"strings"

	chat "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/domain"
	repository "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/persistence/repository/port"
)

// CreateGroupConversationInput carries the data to open a new group thread.
// Unlike direct conversations, groups are never deduplicated: every call
// creates a fresh conversation.
type CreateGroupConversationInput struct {
	CreatorID      string
	Title          string
	ParticipantIDs []string
}

// CreateGroupConversationUseCase creates a group conversation with the
// creator as admin.
type CreateGroupConversationUseCase struct {
	Repo repository.ChatRepository
}

func NewCreateGroupConversationUseCase(repo repository.ChatRepository) *CreateGroupConversationUseCase {
	return &CreateGroupConversationUseCase{Repo: repo}
}

func (uc *CreateGroupConversationUseCase) Execute(ctx context.Context, in CreateGroupConversationInput) (*chat.Conversation, error) {
	if in.CreatorID == "" {
		return nil, fmt.Errorf("creator id is required")
	}

	// Dedupe members and drop the creator; the repository adds the creator
	// row itself with the admin flag set.
	seen := map[string]struct{}{in.CreatorID: {}}
	members := make([]string, 0, len(in.ParticipantIDs))
	for _, uid := range in.ParticipantIDs {
		if uid == "" {
			continue
		}
		if _, ok := seen[uid]; ok {
			continue
		}
		seen[uid] = struct{}{}
		members = append(members, uid)
	}

	conv, err := uc.Repo.CreateGroupConversation(ctx, in.CreatorID, strings.TrimSpace(in.Title), members)
	if err != nil {
		return nil, wrapStoreError(err)
	}
	return conv, nil
}
