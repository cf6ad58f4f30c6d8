package middleware

import (
	"net/http"
	"strings"

	"go-workforce/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Principal trusts the identity headers stamped by the edge gateway,
// which has already authenticated the caller. Requests arriving without
// them never reach a handler.
func Principal() gin.HandlerFunc {
	return func(c *gin.Context) {
		memberID := c.GetHeader("X-Member-ID")
		companyID := c.GetHeader("X-Company-ID")

		if _, err := uuid.Parse(memberID); err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid member identity", nil)
			c.Abort()
			return
		}
		if _, err := uuid.Parse(companyID); err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid company identity", nil)
			c.Abort()
			return
		}

		c.Set("member_id", memberID)
		c.Set("company_id", companyID)

		if positionID := c.GetHeader("X-Member-Position-ID"); positionID != "" {
			c.Set("member_position_id", positionID)
		}
		if orgs := c.GetHeader("X-Organization-IDs"); orgs != "" {
			ids := strings.Split(orgs, ",")
			for i := range ids {
				ids[i] = strings.TrimSpace(ids[i])
			}
			c.Set("organization_ids", ids)
		}

		c.Next()
	}
}
