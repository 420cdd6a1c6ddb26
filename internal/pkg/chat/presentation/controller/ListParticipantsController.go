package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Solvit-Africa-Training-Center/chat-api/internal/middleware"
	"github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/usecase"
	repository "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/persistence/repository/port"
)

// ListParticipantsController returns the member roster of a conversation the
// caller belongs to.
type ListParticipantsController struct {
	UC *usecase.ListParticipantsUseCase
}

func NewListParticipantsController(repo repository.ChatRepository) *ListParticipantsController {
	return &ListParticipantsController{UC: usecase.NewListParticipantsUseCase(repo)}
}

func (h *ListParticipantsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), inflightTimeout)
		defer cancel()

		parts, err := h.UC.Execute(ctx, usecase.ListParticipantsInput{
			ConversationID: c.Param("conversationId"),
			RequesterID:    middleware.UserID(c),
		})
		if err != nil {
			respondError(c, err)
			return
		}

		out := make([]gin.H, 0, len(parts))
		for i := range parts {
			out = append(out, participantJSON(&parts[i]))
		}
		c.JSON(http.StatusOK, gin.H{"participants": out, "count": len(out)})
	}
}
