package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Solvit-Africa-Training-Center/chat-api/internal/middleware"
	"github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/usecase"
	repository "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/persistence/repository/port"
	userrepo "github.com/Solvit-Africa-Training-Center/chat-api/internal/repository/port"
)

// CreateDirectConversationController handles the get-or-create direct
// conversation endpoint (one controller per endpoint).
type CreateDirectConversationController struct {
	UC *usecase.StartDirectConversationUseCase
}

func NewCreateDirectConversationController(repo repository.ChatRepository, users userrepo.UserRepository) *CreateDirectConversationController {
	return &CreateDirectConversationController{UC: usecase.NewStartDirectConversationUseCase(repo, users)}
}

type createDirectRequest struct {
	OtherUserID string `json:"other_user_id" binding:"required"`
}

// Handle returns 201 with the conversation when this call created it and 200
// when an existing pair conversation was reused.
func (h *CreateDirectConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createDirectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), inflightTimeout)
		defer cancel()

		conv, created, err := h.UC.Execute(ctx, usecase.StartDirectConversationInput{
			RequesterID: middleware.UserID(c),
			OtherUserID: req.OtherUserID,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		c.JSON(status, conversationJSON(conv))
	}
}
