package seed

import (
	"net/http"

	"github.com/Mimo68/Gestion-brigade/internal/shared/apperror"
	"github.com/Mimo68/Gestion-brigade/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("seed.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("seed.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) InitSampleData(c *gin.Context) {
	message, err := h.service.InitSampleData(c.Request.Context())
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("init sample data failed",
			zap.Int("status", httpErr.Status),
			zap.String("code", httpErr.Code),
		)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": message}, nil)
}
