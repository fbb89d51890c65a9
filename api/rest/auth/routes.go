package auth

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/staymatch/server/internal/auth"
)

func RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/auth/token", ExchangeTokenHandler())
	router.GET("/auth/me", auth.AuthMiddleware(), MeHandler())
}
