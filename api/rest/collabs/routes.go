package collabs

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/staymatch/server/internal/auth"
	"codeberg.org/staymatch/server/staymatch/negotiation"
)

func RegisterRoutes(router *gin.RouterGroup, svc *negotiation.Service) {
	group := router.Group("/collaborations")
	group.Use(auth.AuthMiddleware())
	{
		group.POST("", ProposeHandler(svc))
		group.GET("", ListHandler(svc))
		group.GET("/:id", GetHandler(svc))
		group.POST("/:id/respond", RespondHandler(svc))
		group.PUT("/:id/terms", SuggestChangesHandler(svc))
		group.POST("/:id/approve", ApproveHandler(svc))
		group.POST("/:id/deliverables/:deliverable_id/toggle", ToggleDeliverableHandler(svc))
		group.POST("/:id/cancel", CancelHandler(svc))
		group.POST("/:id/complete", CompleteHandler(svc))
	}
}
