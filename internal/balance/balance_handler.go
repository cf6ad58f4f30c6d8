package balance

import (
	"net/http"

	"go-workforce/internal/shared/apperror"
	"go-workforce/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("balance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) GetMyBalances(c *gin.Context) {
	companyID := c.GetString("company_id")
	memberID := c.GetString("member_id")

	resp, err := h.service.GetMyBalances(c.Request.Context(), companyID, memberID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("balance request failed",
			zap.String("member_id", memberID),
			zap.Int("status", httpErr.Status),
			zap.String("code", httpErr.Code),
		)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
