package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Solvit-Africa-Training-Center/chat-api/internal/middleware"
	"github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/usecase"
	repository "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/persistence/repository/port"
)

// CreateGroupConversationController handles group-thread creation.
type CreateGroupConversationController struct {
	UC *usecase.CreateGroupConversationUseCase
}

func NewCreateGroupConversationController(repo repository.ChatRepository) *CreateGroupConversationController {
	return &CreateGroupConversationController{UC: usecase.NewCreateGroupConversationUseCase(repo)}
}

type createGroupRequest struct {
	Title          string   `json:"title"`
	ParticipantIDs []string `json:"participant_ids" binding:"required"`
}

func (h *CreateGroupConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createGroupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), inflightTimeout)
		defer cancel()

		conv, err := h.UC.Execute(ctx, usecase.CreateGroupConversationInput{
			CreatorID:      middleware.UserID(c),
			Title:          req.Title,
			ParticipantIDs: req.ParticipantIDs,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, conversationJSON(conv))
	}
}
