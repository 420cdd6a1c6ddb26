package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Solvit-Africa-Training-Center/chat-api/internal/middleware"
	"github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/usecase"
	repository "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/persistence/repository/port"
)

// MarkReadController advances the caller's read cursor in a conversation.
type MarkReadController struct {
	UC *usecase.MarkReadUseCase
}

func NewMarkReadController(repo repository.ChatRepository) *MarkReadController {
	return &MarkReadController{UC: usecase.NewMarkReadUseCase(repo)}
}

func (h *MarkReadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), inflightTimeout)
		defer cancel()

		lastReadAt, err := h.UC.Execute(ctx, usecase.MarkReadInput{
			ConversationID: c.Param("conversationId"),
			UserID:         middleware.UserID(c),
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "last_read_at": lastReadAt})
	}
}
