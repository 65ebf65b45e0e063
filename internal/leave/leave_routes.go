package leave

import (
	"github.com/Mimo68/Gestion-brigade/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	leaves := r.Group("/leaves")
	{
		leaves.GET("", handler.GetAll)
		leaves.GET("/current", handler.GetCurrent)
		leaves.POST("", middleware.RateLimitByIP(5, 10), handler.Create)
		leaves.DELETE("/:id", middleware.RateLimitByIP(5, 10), handler.Cancel)
	}
}
