package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/domain"
	repository "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/persistence/repository/port"
)

// SendMessageInput carries the data needed to send a new message.
// Exactly one addressing mode must be set: an existing ConversationID, or a
// RecipientID which runs the direct get-or-create path first.
type SendMessageInput struct {
	ConversationID string
	RecipientID    string
	SenderID       string
	Content        string
	ParentID       *string
}

// ErrAddressing is returned when neither or both addressing modes are given.
var ErrAddressing = fmt.Errorf("exactly one of conversation_id or recipient_id must be provided")

// SendMessageUseCase persists a new message. The repository inserts the row
// and bumps the conversation's last_message_at in one transaction; callers
// broadcast to live connections only after this returns, so subscribers
// observe commit order.
type SendMessageUseCase struct {
	Repo   repository.ChatRepository
	Direct *StartDirectConversationUseCase
}

func NewSendMessageUseCase(repo repository.ChatRepository, direct *StartDirectConversationUseCase) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo, Direct: direct}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*chat.Message, error) {
	if in.SenderID == "" {
		return nil, fmt.Errorf("sender id is required")
	}
	if (in.ConversationID == "") == (in.RecipientID == "") {
		return nil, ErrAddressing
	}

	conversationID := in.ConversationID
	if conversationID == "" {
		conv, _, err := uc.Direct.Execute(ctx, StartDirectConversationInput{
			RequesterID: in.SenderID,
			OtherUserID: in.RecipientID,
		})
		if err != nil {
			return nil, err
		}
		conversationID = conv.ID
	}

	isParticipant, err := uc.Repo.IsParticipant(ctx, conversationID, in.SenderID)
	if err != nil {
		return nil, wrapStoreError(err)
	}
	if !isParticipant {
		return nil, chat.ErrNotParticipant
	}

	msg, err := chat.NewMessage(conversationID, in.SenderID, in.Content, in.ParentID)
	if err != nil {
		return nil, err
	}

	if msg.ParentID != nil {
		parent, err := uc.Repo.GetMessage(ctx, *msg.ParentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// a reply target that does not exist is treated the same as
				// one from another conversation
				return nil, chat.ErrParentMismatch
			}
			return nil, wrapStoreError(err)
		}
		if parent.ConversationID != conversationID {
			return nil, chat.ErrParentMismatch
		}
	}

	stored, err := uc.Repo.SaveMessage(ctx, *msg)
	if err != nil {
		return nil, wrapStoreError(err)
	}
	return stored, nil
}
