package policy

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	policies := r.Group("/policies")
	{
		policies.GET("", handler.GetAll)
		policies.GET("/:id", handler.GetById)
		policies.POST("", handler.Create)
		policies.DELETE("/:id", handler.Deactivate)

		policies.GET("/assignments", handler.GetAssignments)
		policies.POST("/assignments", handler.CreateAssignments)
		policies.DELETE("/assignments/:id", handler.RevokeAssignment)
	}
}
