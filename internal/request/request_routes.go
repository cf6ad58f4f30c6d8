package request

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	requests := r.Group("/requests")
	{
		requests.GET("/me", handler.GetMine)
		requests.GET("/:id", handler.GetById)
		requests.POST("", handler.Create)
		requests.POST("/:id/cancel", handler.Cancel)
	}
}
