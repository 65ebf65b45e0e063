package employee

import (
	"github.com/Mimo68/Gestion-brigade/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	employees := r.Group("/employees")
	{
		employees.GET("", handler.GetAll)
		employees.GET("/:id", handler.GetById)
		employees.POST("", middleware.RateLimitByIP(5, 10), handler.Create)
		employees.PUT("/:id", middleware.RateLimitByIP(5, 10), handler.Update)
		employees.PUT("/:id/leave-balance", middleware.RateLimitByIP(2, 5), handler.AdjustBalance)
		employees.DELETE("/:id", middleware.RateLimitByIP(2, 5), handler.Delete)
	}
}
