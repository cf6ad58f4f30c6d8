package attendance

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	attendances := r.Group("/attendance")
	{
		attendances.GET("/me", h.GetMonth)
		attendances.POST("/clock-in", h.ClockIn)
		attendances.POST("/clock-out", h.ClockOut)
	}
}
