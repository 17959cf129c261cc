package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/legalchat/legalchat/internal/middleware"
)

type RouterDeps struct {
	Documents *DocumentHandler
	Chat      *ChatHandler
	Files     *FileHandler
	// AskWindow is the per-client rate limit window on question answering.
	AskWindow time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/documents", deps.Documents.Ingest)
	api.GET("/documents", deps.Documents.List)
	api.GET("/documents/:id", deps.Documents.Get)
	api.GET("/documents/:id/clauses", deps.Documents.Clauses)

	api.POST("/chat/messages", middleware.RateLimit(deps.AskWindow), deps.Chat.SendMessage)
	api.POST("/chat/rooms", deps.Chat.CreateRoom)
	api.GET("/chat/rooms", deps.Chat.ListRooms)
	api.GET("/chat/rooms/:chat_id/messages", deps.Chat.Messages)
	api.GET("/chat/rooms/:chat_id/export", deps.Chat.Export)

	api.GET("/files/:key", deps.Files.Get)
}
