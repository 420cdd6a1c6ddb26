package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	chat "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/domain"
	"github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/usecase"
)

// inflightTimeout bounds every store-backed request handled by a controller.
const inflightTimeout = 5 * time.Second

func statusFor(err error) int {
	switch {
	case errors.Is(err, chat.ErrNotParticipant), errors.Is(err, chat.ErrNotSender):
		return http.StatusForbidden
	case errors.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrTransient):
		return http.StatusServiceUnavailable
	case errors.Is(err, usecase.ErrPersistence):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// respondError maps a use-case error onto an HTTP status. Authorization
// failures get a fixed body so responses never reveal whether the
// conversation exists.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	switch status {
	case http.StatusForbidden:
		msg = "you do not have access to this resource"
	case http.StatusInternalServerError:
		msg = "unexpected persistence error"
	case http.StatusServiceUnavailable:
		msg = "temporary failure, please retry"
	}
	c.JSON(status, gin.H{"error": msg})
}

func conversationJSON(conv *chat.Conversation) gin.H {
	return gin.H{
		"id":              conv.ID,
		"kind":            conv.Kind,
		"title":           conv.Title,
		"created_by":      conv.CreatedBy,
		"created_at":      conv.CreatedAt,
		"last_message_at": conv.LastMessageAt,
	}
}

func messageJSON(m *chat.Message) gin.H {
	return gin.H{
		"id":              m.ID,
		"conversation_id": m.ConversationID,
		"sender_id":       m.SenderID,
		"content":         m.Content,
		"parent_id":       m.ParentID,
		"created_at":      m.CreatedAt,
		"updated_at":      m.UpdatedAt,
		"is_deleted":      m.IsDeleted,
	}
}

func participantJSON(p *chat.Participant) gin.H {
	return gin.H{
		"user_id":      p.UserID,
		"is_admin":     p.IsAdmin,
		"joined_at":    p.JoinedAt,
		"last_read_at": p.LastReadAt,
		"last_seen_at": p.LastSeenAt,
	}
}
