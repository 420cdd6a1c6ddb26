package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Solvit-Africa-Training-Center/chat-api/internal/middleware"
	"github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/usecase"
	repository "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/persistence/repository/port"
)

// EditMessageController handles content-only edits by the message sender.
type EditMessageController struct {
	UC *usecase.EditMessageUseCase
}

func NewEditMessageController(repo repository.ChatRepository) *EditMessageController {
	return &EditMessageController{UC: usecase.NewEditMessageUseCase(repo)}
}

type editMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *EditMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req editMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), inflightTimeout)
		defer cancel()

		msg, err := h.UC.Execute(ctx, usecase.EditMessageInput{
			MessageID:   c.Param("messageId"),
			RequesterID: middleware.UserID(c),
			Content:     req.Content,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, messageJSON(msg))
	}
}
