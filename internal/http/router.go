package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/yungbote/omnichat-backend/internal/http/handlers"
	httpMW "github.com/yungbote/omnichat-backend/internal/http/middleware"
)

type RouterConfig struct {
	ConversationHandler *httpH.ConversationHandler
	MessageHandler      *httpH.MessageHandler
	AttachmentHandler   *httpH.AttachmentHandler
	DocumentHandler     *httpH.DocumentHandler
	VideoHandler        *httpH.VideoHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.ConversationHandler != nil {
			api.GET("/chats", cfg.ConversationHandler.ListChats)
			api.POST("/chats", cfg.ConversationHandler.CreateChat)
			api.GET("/chats/:id", cfg.ConversationHandler.GetChat)
			api.POST("/chats/:id/select", cfg.ConversationHandler.SelectChat)
			api.DELETE("/chats/:id", cfg.ConversationHandler.DeleteChat)

			api.GET("/contacts", cfg.ConversationHandler.ListContacts)
			api.POST("/contacts", cfg.ConversationHandler.AddContact)
			api.POST("/contacts/:id/chat", cfg.ConversationHandler.OpenContactChat)

			api.GET("/groups", cfg.ConversationHandler.ListGroups)
			api.POST("/groups", cfg.ConversationHandler.CreateGroup)
			api.POST("/groups/:id/chat", cfg.ConversationHandler.OpenGroupChat)
		}

		if cfg.MessageHandler != nil {
			api.POST("/chats/:id/messages", cfg.MessageHandler.Send)
			api.POST("/chats/:id/messages/stream", cfg.MessageHandler.SendStream)
			api.POST("/chats/:id/cancel", cfg.MessageHandler.Cancel)
			api.PUT("/chats/:id/messages/:messageId", cfg.MessageHandler.Edit)
		}

		if cfg.AttachmentHandler != nil {
			api.GET("/attachments", cfg.AttachmentHandler.List)
			api.POST("/attachments", cfg.AttachmentHandler.Add)
			api.DELETE("/attachments/:id", cfg.AttachmentHandler.Remove)
		}

		if cfg.DocumentHandler != nil {
			api.POST("/documents/parse", cfg.DocumentHandler.Parse)
		}

		if cfg.VideoHandler != nil {
			api.POST("/youtube/search", cfg.VideoHandler.Search)
		}
	}

	return r
}
