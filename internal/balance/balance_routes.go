package balance

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	balances := r.Group("/balances")
	{
		balances.GET("/me", handler.GetMyBalances)
	}
}
