package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	cacheAdapter "github.com/Solvit-Africa-Training-Center/chat-api/internal/infrastructure/cache/adapter"
	"github.com/Solvit-Africa-Training-Center/chat-api/internal/infrastructure/database"
	queueAdapter "github.com/Solvit-Africa-Training-Center/chat-api/internal/infrastructure/queue/adapter"
	"github.com/Solvit-Africa-Training-Center/chat-api/internal/infrastructure/realtime"
	"github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/task"

	v1 "github.com/Solvit-Africa-Training-Center/chat-api/cmd/api/router/v1"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to the database on startup
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := database.NewPoolFromEnv(connectCtx)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.Migrate(connectCtx, pool); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	cache, err := cacheAdapter.NewRedisAdapter()
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer cache.Close()

	queueClient, err := queueAdapter.NewAsynqClientFromEnv()
	if err != nil {
		log.Fatalf("failed to create queue client: %v", err)
	}
	defer queueClient.Close()

	hub := realtime.NewHub()
	defer hub.Close()

	// Background workers run inside the API process; the notification task
	// skips members who hold a live connection on this hub.
	queueServer, err := queueAdapter.NewAsynqServer()
	if err != nil {
		log.Fatalf("failed to create queue server: %v", err)
	}
	task.RegisterNotifyMessageTask(queueServer, pool, cache, hub)
	go func() {
		if err := queueServer.Run(ctx); err != nil {
			log.Printf("queue server stopped: %v", err)
		}
	}()

	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "OK",
		})
	})

	v1.RegisterRoutes(r, pool, queueClient, hub)

	// Start HTTP server (blocks until shutdown)
	if err := r.Run(); err != nil {
		log.Fatalf("http server: %v", err)
	}
}
