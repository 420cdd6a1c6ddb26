package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Solvit-Africa-Training-Center/chat-api/internal/middleware"
	"github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/usecase"
	repository "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/persistence/repository/port"
)

// DeleteMessageController soft-deletes a message on behalf of its sender.
type DeleteMessageController struct {
	UC *usecase.DeleteMessageUseCase
}

func NewDeleteMessageController(repo repository.ChatRepository) *DeleteMessageController {
	return &DeleteMessageController{UC: usecase.NewDeleteMessageUseCase(repo)}
}

func (h *DeleteMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), inflightTimeout)
		defer cancel()

		err := h.UC.Execute(ctx, usecase.DeleteMessageInput{
			MessageID:   c.Param("messageId"),
			RequesterID: middleware.UserID(c),
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	}
}
