package chat

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/staymatch/server/internal/auth"
	"codeberg.org/staymatch/server/internal/ratelimit"
	"codeberg.org/staymatch/server/staymatch/negotiation"
)

func RegisterRoutes(router *gin.RouterGroup, svc *negotiation.Service, limiter *ratelimit.PerSender) {
	router.GET("/conversations", auth.AuthMiddleware(), ListConversationsHandler(svc))

	group := router.Group("/collaborations/:id")
	group.Use(auth.AuthMiddleware())
	{
		group.POST("/messages", SendMessageHandler(svc, limiter))
		group.GET("/messages", ListMessagesHandler(svc))
		group.POST("/read", MarkReadHandler(svc))
	}
}
