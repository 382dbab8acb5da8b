package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{svc: service}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/health", h.HealthCheck)
}

// HealthCheck answers 200 with the report, or 503 with the same shape when
// the database is unreachable.
func (h *Handler) HealthCheck(c *gin.Context) {
	report, err := h.svc.CheckHealth(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, report)
		return
	}
	c.JSON(http.StatusOK, report)
}
