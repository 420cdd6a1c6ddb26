package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Solvit-Africa-Training-Center/chat-api/internal/infrastructure/realtime"
	qport "github.com/Solvit-Africa-Training-Center/chat-api/internal/infrastructure/queue/port"
	"github.com/Solvit-Africa-Training-Center/chat-api/internal/middleware"
	chat "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/domain"
	"github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/usecase"
	repository "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/persistence/repository/port"
	userrepo "github.com/Solvit-Africa-Training-Center/chat-api/internal/repository/port"
)

// ChatSocketController handles the per-conversation websocket endpoint.
//
// Each connection walks a fixed sequence: transport established, identity
// resolved (or closed with 4401), membership checked (or closed with 4403),
// then joined to the conversation's broadcast group until disconnect. There
// is no resume protocol; a dropped connection rejoins from scratch and
// catches up through the message-list endpoint.
type ChatSocketController struct {
	hub    *realtime.Hub
	q      qport.Client
	sendUC *usecase.SendMessageUseCase
	joinUC *usecase.JoinConversationUseCase
}

func NewChatSocketController(repo repository.ChatRepository, users userrepo.UserRepository, hub *realtime.Hub, q qport.Client) *ChatSocketController {
	direct := usecase.NewStartDirectConversationUseCase(repo, users)
	return &ChatSocketController{
		hub:    hub,
		q:      q,
		sendUC: usecase.NewSendMessageUseCase(repo, direct),
		joinUC: usecase.NewJoinConversationUseCase(repo),
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The auth gateway terminates origins; allow all here.
		return true
	},
}

type inboundFrame struct {
	Type    string  `json:"type"`
	Content string  `json:"content,omitempty"`
	ReplyTo *string `json:"reply_to,omitempty"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type ackFrame struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id,omitempty"`
}

const (
	defaultReadTimeout = 60 * time.Second
	sendTimeout        = 5 * time.Second
)

// Handle upgrades the HTTP request and processes frames until the client
// disconnects.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID := c.Param("conversationId")
		userID := middleware.ResolveUserID(c.Request)

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just return.
			return
		}
		conn := realtime.NewConnection(userID, ws)

		if userID == "" {
			conn.Close(realtime.CloseUnauthenticated, "unauthenticated")
			return
		}

		joinCtx, cancel := context.WithTimeout(c.Request.Context(), sendTimeout)
		err = ctl.joinUC.Execute(joinCtx, usecase.JoinConversationInput{
			ConversationID: conversationID,
			UserID:         userID,
		})
		cancel()
		if err != nil {
			if errors.Is(err, chat.ErrNotParticipant) || errors.Is(err, usecase.ErrNotFound) {
				conn.Close(realtime.CloseForbidden, "forbidden")
			} else {
				conn.Close(websocket.CloseInternalServerErr, "join failed")
			}
			return
		}

		ctl.hub.Join(conversationID, conn)
		defer func() {
			ctl.hub.Leave(conversationID, conn)
			// Presence bump on the way out is best-effort and must not block
			// teardown.
			if err := ctl.joinUC.Touch(context.Background(), conversationID, userID); err != nil {
				log.Printf("ws: last_seen update on disconnect: %v", err)
			}
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		if payload, err := json.Marshal(ackFrame{Type: "connected", ConversationID: conversationID}); err == nil {
			_ = conn.Send(payload)
		}

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}

			switch frame.Type {
			case "message.create":
				ctl.handleCreate(c, conn, conversationID, userID, frame)
			default:
				ctl.replyError(conn, "unsupported_type", "unknown frame type")
			}
		}
	}
}

func (ctl *ChatSocketController) handleCreate(c *gin.Context, conn *realtime.Connection, conversationID, userID string, frame inboundFrame) {
	// Blank content is dropped without an error frame.
	if strings.TrimSpace(frame.Content) == "" {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), sendTimeout)
	defer cancel()

	msg, err := ctl.sendUC.Execute(ctx, usecase.SendMessageInput{
		ConversationID: conversationID,
		SenderID:       userID,
		Content:        frame.Content,
		ParentID:       frame.ReplyTo,
	})
	if err != nil {
		ctl.replyUseCaseError(conn, err)
		return
	}

	// Broadcast only after the store confirmed the write, so every subscriber
	// observes commit order. The sender's own connection is part of the group
	// and receives the event too.
	publishCreated(ctl.hub, ctl.q, msg)
}

func (ctl *ChatSocketController) replyUseCaseError(conn *realtime.Connection, err error) {
	switch {
	case errors.Is(err, chat.ErrNotParticipant):
		ctl.replyError(conn, "forbidden", "user is not a participant in this conversation")
	case errors.Is(err, chat.ErrParentMismatch):
		ctl.replyError(conn, "bad_request", "reply target is not part of this conversation")
	case errors.Is(err, usecase.ErrTransient):
		ctl.replyError(conn, "retry", "temporary failure, please retry")
	case errors.Is(err, usecase.ErrPersistence):
		ctl.replyError(conn, "internal_error", "unexpected persistence error")
	default:
		ctl.replyError(conn, "bad_request", err.Error())
	}
}

func (ctl *ChatSocketController) replyError(conn *realtime.Connection, code string, message string) {
	frame := errorFrame{Type: "error", Code: code, Error: message}
	if payload, err := json.Marshal(frame); err == nil {
		_ = conn.Send(payload)
	}
}
