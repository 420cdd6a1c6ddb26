package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Solvit-Africa-Training-Center/chat-api/internal/middleware"
	"github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/usecase"
	repository "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/persistence/repository/port"
)

// ListConversationsController returns the caller's conversations, newest
// activity first, each with the caller's unread counter.
type ListConversationsController struct {
	UC *usecase.ListConversationsUseCase
}

func NewListConversationsController(repo repository.ChatRepository) *ListConversationsController {
	return &ListConversationsController{UC: usecase.NewListConversationsUseCase(repo)}
}

func (h *ListConversationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), inflightTimeout)
		defer cancel()

		summaries, err := h.UC.Execute(ctx, middleware.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}

		out := make([]gin.H, 0, len(summaries))
		for i := range summaries {
			item := conversationJSON(&summaries[i].Conversation)
			item["unread_count"] = summaries[i].UnreadCount
			out = append(out, item)
		}
		c.JSON(http.StatusOK, gin.H{"conversations": out, "count": len(out)})
	}
}
