package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	qport "github.com/Solvit-Africa-Training-Center/chat-api/internal/infrastructure/queue/port"
	"github.com/Solvit-Africa-Training-Center/chat-api/internal/infrastructure/realtime"
	httpHandler "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/presentation/http"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1
func RegisterRoutes(r *gin.Engine, pool *pgxpool.Pool, client qport.Client, hub *realtime.Hub) {
	v1 := r.Group("/api/v1")
	// Pass the DB pool, queue client, and realtime hub down to the HTTP layer
	httpHandler.RegisterRoutes(v1, pool, client, hub)
}
