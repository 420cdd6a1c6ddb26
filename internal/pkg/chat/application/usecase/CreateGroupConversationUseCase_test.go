package usecase_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	chat "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/domain"
	"github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/usecase"
)

var _ = Describe("CreateGroupConversationUseCase", func() {
	var (
		repo *mockChatRepository
		uc   *usecase.CreateGroupConversationUseCase
		ctx  context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = &mockChatRepository{}
		uc = usecase.NewCreateGroupConversationUseCase(repo)
	})

	It("requires a creator", func() {
		_, err := uc.Execute(ctx, usecase.CreateGroupConversationInput{Title: "team"})
		Expect(err).To(HaveOccurred())
	})

	It("dedupes members and drops the creator from the member list", func() {
		var gotCreator, gotTitle string
		var gotMembers []string
		repo.createGroupConversationFn = func(_ context.Context, creatorID, title string, memberIDs []string) (*chat.Conversation, error) {
			gotCreator = creatorID
			gotTitle = title
			gotMembers = memberIDs
			return &chat.Conversation{ID: "conv-g", Kind: chat.KindGroup, Title: title}, nil
		}

		conv, err := uc.Execute(ctx, usecase.CreateGroupConversationInput{
			CreatorID:      "alice",
			Title:          "  planning  ",
			ParticipantIDs: []string{"bob", "alice", "carol", "bob", ""},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(conv.Kind).To(Equal(chat.KindGroup))
		Expect(gotCreator).To(Equal("alice"))
		Expect(gotTitle).To(Equal("planning"))
		Expect(gotMembers).To(Equal([]string{"bob", "carol"}))
	})

	It("never deduplicates groups: each call creates a fresh conversation", func() {
		calls := 0
		repo.createGroupConversationFn = func(_ context.Context, creatorID, title string, memberIDs []string) (*chat.Conversation, error) {
			calls++
			return &chat.Conversation{ID: "conv-g", Kind: chat.KindGroup}, nil
		}

		in := usecase.CreateGroupConversationInput{CreatorID: "alice", ParticipantIDs: []string{"bob"}}
		_, err := uc.Execute(ctx, in)
		Expect(err).NotTo(HaveOccurred())
		_, err = uc.Execute(ctx, in)
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal(2))
	})
})
