package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	qport "github.com/Solvit-Africa-Training-Center/chat-api/internal/infrastructure/queue/port"
	"github.com/Solvit-Africa-Training-Center/chat-api/internal/infrastructure/realtime"
	"github.com/Solvit-Africa-Training-Center/chat-api/internal/middleware"
	"github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/persistence/repository/adapter"
	"github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/presentation/controller"
	useradapter "github.com/Solvit-Africa-Training-Center/chat-api/internal/repository/adapter"
)

// RegisterRoutes registers chat-related HTTP endpoints under the given router group.
// It constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool, client qport.Client, hub *realtime.Hub) {
	repo := adapter.NewPgChatRepository(pool)
	users := useradapter.NewPgUserRepository(pool)

	directCtl := controller.NewCreateDirectConversationController(repo, users)
	groupCtl := controller.NewCreateGroupConversationController(repo)
	listCtl := controller.NewListConversationsController(repo)
	participantsCtl := controller.NewListParticipantsController(repo)
	markReadCtl := controller.NewMarkReadController(repo)
	unreadCtl := controller.NewUnreadCountController(repo)
	sendMsgCtl := controller.NewSendMessageController(repo, users, hub, client)
	getMsgCtl := controller.NewGetMessageController(repo)
	editMsgCtl := controller.NewEditMessageController(repo)
	deleteMsgCtl := controller.NewDeleteMessageController(repo)
	socketCtl := controller.NewChatSocketController(repo, users, hub, client)

	// REST surface requires a resolved caller identity up front. The socket
	// route resolves identity itself so it can answer with websocket close
	// codes instead of an HTTP 401.
	authed := g.Group("", middleware.Identity())

	// POST /api/v1/conversations/direct -> get or create a two-person conversation
	authed.POST("/conversations/direct", directCtl.Handle())

	// POST /api/v1/conversations -> create a group conversation
	authed.POST("/conversations", groupCtl.Handle())

	// GET /api/v1/conversations -> caller's conversations with unread counts
	authed.GET("/conversations", listCtl.Handle())

	// GET /api/v1/conversations/:conversationId/participants -> membership roster
	authed.GET("/conversations/:conversationId/participants", participantsCtl.Handle())

	// POST /api/v1/conversations/:conversationId/mark_read -> advance the read cursor
	authed.POST("/conversations/:conversationId/mark_read", markReadCtl.Handle())

	// GET /api/v1/conversations/:conversationId/unread_count -> unread message count
	authed.GET("/conversations/:conversationId/unread_count", unreadCtl.Handle())

	// POST /api/v1/messages -> send into a conversation or to a recipient
	authed.POST("/messages", sendMsgCtl.Handle())

	// GET /api/v1/messages?conversation_id=... -> fetch the message log
	authed.GET("/messages", getMsgCtl.Handle())

	// PATCH /api/v1/messages/:messageId -> edit message content (sender only)
	authed.PATCH("/messages/:messageId", editMsgCtl.Handle())

	// DELETE /api/v1/messages/:messageId -> soft-delete (sender only)
	authed.DELETE("/messages/:messageId", deleteMsgCtl.Handle())

	// GET /api/v1/conversations/:conversationId/ws -> realtime feed
	g.GET("/conversations/:conversationId/ws", socketCtl.Handle())
}
