package usecase_test

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	chat "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/domain"
	"github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/usecase"
	repository "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/persistence/repository/port"
)

var _ = Describe("MarkReadUseCase", func() {
	var (
		repo *mockChatRepository
		uc   *usecase.MarkReadUseCase
		ctx  context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = &mockChatRepository{}
		uc = usecase.NewMarkReadUseCase(repo)
	})

	It("rejects non-participants", func() {
		repo.isParticipantFn = func(_ context.Context, convID, userID string) (bool, error) {
			return false, nil
		}
		_, err := uc.Execute(ctx, usecase.MarkReadInput{ConversationID: "conv-1", UserID: "mallory"})
		Expect(err).To(MatchError(chat.ErrNotParticipant))
	})

	It("returns the stored cursor value", func() {
		stored := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
		repo.markReadFn = func(_ context.Context, convID, userID string, now time.Time) (time.Time, error) {
			return stored, nil
		}
		got, err := uc.Execute(ctx, usecase.MarkReadInput{ConversationID: "conv-1", UserID: "alice"})
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(stored))
	})

	It("never regresses the cursor under concurrent marks", func() {
		// the store keeps max(current, now); repeated and racing calls can
		// only move the cursor forward
		var (
			mu     sync.Mutex
			cursor time.Time
		)
		repo.markReadFn = func(_ context.Context, convID, userID string, now time.Time) (time.Time, error) {
			mu.Lock()
			defer mu.Unlock()
			if now.After(cursor) {
				cursor = now
			}
			return cursor, nil
		}

		var wg sync.WaitGroup
		results := make(chan time.Time, 16)
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer GinkgoRecover()
				got, err := uc.Execute(ctx, usecase.MarkReadInput{ConversationID: "conv-1", UserID: "alice"})
				Expect(err).NotTo(HaveOccurred())
				results <- got
			}()
		}
		wg.Wait()
		close(results)

		// every caller observed a value at or below the final cursor, and the
		// final cursor is one of the observed values
		var max time.Time
		for got := range results {
			Expect(got.After(cursor)).To(BeFalse())
			if got.After(max) {
				max = got
			}
		}
		Expect(max).To(Equal(cursor))
	})

	It("maps a missing participant row to not found", func() {
		repo.markReadFn = func(_ context.Context, convID, userID string, now time.Time) (time.Time, error) {
			return time.Time{}, repository.ErrNotFound
		}
		_, err := uc.Execute(ctx, usecase.MarkReadInput{ConversationID: "conv-1", UserID: "alice"})
		Expect(err).To(MatchError(usecase.ErrNotFound))
	})
})

var _ = Describe("UnreadCountUseCase", func() {
	var (
		repo *mockChatRepository
		uc   *usecase.UnreadCountUseCase
		ctx  context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = &mockChatRepository{}
		uc = usecase.NewUnreadCountUseCase(repo)
	})

	It("rejects non-participants", func() {
		repo.isParticipantFn = func(_ context.Context, convID, userID string) (bool, error) {
			return false, nil
		}
		_, err := uc.Execute(ctx, usecase.UnreadCountInput{ConversationID: "conv-1", UserID: "mallory"})
		Expect(err).To(MatchError(chat.ErrNotParticipant))
	})

	It("returns the store's counter", func() {
		repo.unreadCountFn = func(_ context.Context, convID, userID string) (int, error) {
			return 5, nil
		}
		count, err := uc.Execute(ctx, usecase.UnreadCountInput{ConversationID: "conv-1", UserID: "alice"})
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(5))
	})

	It("retries the count once on a transient failure", func() {
		calls := 0
		repo.unreadCountFn = func(_ context.Context, convID, userID string) (int, error) {
			calls++
			if calls == 1 {
				return 0, repository.ErrTransient
			}
			return 3, nil
		}
		count, err := uc.Execute(ctx, usecase.UnreadCountInput{ConversationID: "conv-1", UserID: "alice"})
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(3))
		Expect(calls).To(Equal(2))
	})

	It("surfaces the transient error after a failed retry", func() {
		repo.unreadCountFn = func(_ context.Context, convID, userID string) (int, error) {
			return 0, repository.ErrTransient
		}
		_, err := uc.Execute(ctx, usecase.UnreadCountInput{ConversationID: "conv-1", UserID: "alice"})
		Expect(err).To(MatchError(usecase.ErrTransient))
	})
})
