package usecase_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	chat "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/domain"
	"github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/usecase"
	repository "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/persistence/repository/port"
)

var _ = Describe("SendMessageUseCase", func() {
	var (
		repo *mockChatRepository
		uc   *usecase.SendMessageUseCase
		ctx  context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = &mockChatRepository{}
		direct := usecase.NewStartDirectConversationUseCase(repo, &mockUserRepository{})
		uc = usecase.NewSendMessageUseCase(repo, direct)
	})

	It("rejects a request that names both a conversation and a recipient", func() {
		_, err := uc.Execute(ctx, usecase.SendMessageInput{
			ConversationID: "conv-1",
			RecipientID:    "bob",
			SenderID:       "alice",
			Content:        "hi",
		})
		Expect(err).To(MatchError(usecase.ErrAddressing))
	})

	It("rejects a request that names neither", func() {
		_, err := uc.Execute(ctx, usecase.SendMessageInput{
			SenderID: "alice",
			Content:  "hi",
		})
		Expect(err).To(MatchError(usecase.ErrAddressing))
	})

	It("rejects senders who are not participants", func() {
		repo.isParticipantFn = func(_ context.Context, convID, userID string) (bool, error) {
			return false, nil
		}
		_, err := uc.Execute(ctx, usecase.SendMessageInput{
			ConversationID: "conv-1",
			SenderID:       "mallory",
			Content:        "hi",
		})
		Expect(err).To(MatchError(chat.ErrNotParticipant))
	})

	It("rejects blank content before touching the store", func() {
		repo.saveMessageFn = func(_ context.Context, m chat.Message) (*chat.Message, error) {
			Fail("blank content must never reach the store")
			return nil, nil
		}
		_, err := uc.Execute(ctx, usecase.SendMessageInput{
			ConversationID: "conv-1",
			SenderID:       "alice",
			Content:        "   \n\t ",
		})
		Expect(err).To(MatchError(chat.ErrEmptyContent))
	})

	It("persists a trimmed message into the addressed conversation", func() {
		var saved chat.Message
		repo.saveMessageFn = func(_ context.Context, m chat.Message) (*chat.Message, error) {
			saved = m
			stored := m
			stored.ID = "msg-7"
			return &stored, nil
		}

		msg, err := uc.Execute(ctx, usecase.SendMessageInput{
			ConversationID: "conv-1",
			SenderID:       "alice",
			Content:        "  hello bob  ",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(msg.ID).To(Equal("msg-7"))
		Expect(saved.ConversationID).To(Equal("conv-1"))
		Expect(saved.Content).To(Equal("hello bob"))
		Expect(saved.ParentID).To(BeNil())
	})

	It("opens the pair's direct conversation when addressed by recipient", func() {
		repo.createDirectConversationFn = func(_ context.Context, a, b string) (*chat.Conversation, bool, error) {
			return &chat.Conversation{ID: "conv-direct", Kind: chat.KindDirect}, true, nil
		}
		var saved chat.Message
		repo.saveMessageFn = func(_ context.Context, m chat.Message) (*chat.Message, error) {
			saved = m
			stored := m
			stored.ID = "msg-1"
			return &stored, nil
		}

		_, err := uc.Execute(ctx, usecase.SendMessageInput{
			RecipientID: "bob",
			SenderID:    "alice",
			Content:     "hi",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(saved.ConversationID).To(Equal("conv-direct"))
	})

	Describe("reply links", func() {
		It("accepts a parent from the same conversation", func() {
			parentID := "msg-parent"
			repo.getMessageFn = func(_ context.Context, id string) (*chat.Message, error) {
				return &chat.Message{ID: id, ConversationID: "conv-1", SenderID: "bob", Content: "original"}, nil
			}

			msg, err := uc.Execute(ctx, usecase.SendMessageInput{
				ConversationID: "conv-1",
				SenderID:       "alice",
				Content:        "replying",
				ParentID:       &parentID,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(msg.ParentID).To(HaveValue(Equal(parentID)))
		})

		It("rejects a parent from another conversation", func() {
			parentID := "msg-parent"
			repo.getMessageFn = func(_ context.Context, id string) (*chat.Message, error) {
				return &chat.Message{ID: id, ConversationID: "conv-other", SenderID: "bob", Content: "elsewhere"}, nil
			}

			_, err := uc.Execute(ctx, usecase.SendMessageInput{
				ConversationID: "conv-1",
				SenderID:       "alice",
				Content:        "replying",
				ParentID:       &parentID,
			})
			Expect(err).To(MatchError(chat.ErrParentMismatch))
		})

		It("rejects a parent that does not exist", func() {
			parentID := "msg-gone"
			repo.getMessageFn = func(_ context.Context, id string) (*chat.Message, error) {
				return nil, repository.ErrNotFound
			}

			_, err := uc.Execute(ctx, usecase.SendMessageInput{
				ConversationID: "conv-1",
				SenderID:       "alice",
				Content:        "replying",
				ParentID:       &parentID,
			})
			Expect(err).To(MatchError(chat.ErrParentMismatch))
		})
	})

	It("surfaces a transient write failure without retrying", func() {
		calls := 0
		repo.saveMessageFn = func(_ context.Context, m chat.Message) (*chat.Message, error) {
			calls++
			return nil, repository.ErrTransient
		}

		_, err := uc.Execute(ctx, usecase.SendMessageInput{
			ConversationID: "conv-1",
			SenderID:       "alice",
			Content:        "hi",
		})
		Expect(err).To(MatchError(usecase.ErrTransient))
		Expect(calls).To(Equal(1))
	})
})
