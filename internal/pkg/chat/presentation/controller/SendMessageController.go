package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Solvit-Africa-Training-Center/chat-api/internal/infrastructure/realtime"
	qport "github.com/Solvit-Africa-Training-Center/chat-api/internal/infrastructure/queue/port"
	"github.com/Solvit-Africa-Training-Center/chat-api/internal/middleware"
	"github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/usecase"
	repository "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/persistence/repository/port"
	userrepo "github.com/Solvit-Africa-Training-Center/chat-api/internal/repository/port"
)

// SendMessageController handles the send-message endpoint. The request
// addresses either an existing conversation or a recipient (which opens the
// pair's direct conversation on the fly); exactly one of the two.
type SendMessageController struct {
	UC  *usecase.SendMessageUseCase
	hub *realtime.Hub
	q   qport.Client
}

func NewSendMessageController(repo repository.ChatRepository, users userrepo.UserRepository, hub *realtime.Hub, q qport.Client) *SendMessageController {
	direct := usecase.NewStartDirectConversationUseCase(repo, users)
	return &SendMessageController{
		UC:  usecase.NewSendMessageUseCase(repo, direct),
		hub: hub,
		q:   q,
	}
}

type sendMessageRequest struct {
	ConversationID string  `json:"conversation_id"`
	RecipientID    string  `json:"recipient_id"`
	Content        string  `json:"content" binding:"required"`
	ParentID       *string `json:"parent_id"`
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), inflightTimeout)
		defer cancel()

		msg, err := h.UC.Execute(ctx, usecase.SendMessageInput{
			ConversationID: req.ConversationID,
			RecipientID:    req.RecipientID,
			SenderID:       middleware.UserID(c),
			Content:        req.Content,
			ParentID:       req.ParentID,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		// The write is committed; fan-out happens strictly after.
		publishCreated(h.hub, h.q, msg)

		c.JSON(http.StatusCreated, messageJSON(msg))
	}
}
