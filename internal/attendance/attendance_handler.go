package attendance

import (
	"net/http"
	"time"

	attendanceerrors "go-workforce/internal/attendance/errors"
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
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("attendance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) ClockIn(c *gin.Context) {
	companyID := c.GetString("company_id")
	memberID := c.GetString("member_id")

	resp, err := h.service.ClockIn(c.Request.Context(), companyID, memberID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ClockOut(c *gin.Context) {
	companyID := c.GetString("company_id")
	memberID := c.GetString("member_id")

	resp, err := h.service.ClockOut(c.Request.Context(), companyID, memberID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetMonth(c *gin.Context) {
	companyID := c.GetString("company_id")
	memberID := c.GetString("member_id")

	month, err := time.Parse("2006-01", c.DefaultQuery("month", time.Now().UTC().Format("2006-01")))
	if err != nil {
		h.writeServiceError(c, attendanceerrors.ErrInvalidMonth)
		return
	}

	resp, err := h.service.GetMonth(c.Request.Context(), companyID, memberID, month.Year(), month.Month())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
