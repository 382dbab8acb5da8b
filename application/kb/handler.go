package kb

import (
	"net/http"

	"devdesk/middleware"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{svc: service}
}

// RegisterRoutes registers the knowledge-base routes on the /api group.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/kb", h.List)
	api.POST("/kb", h.Create)
	api.GET("/kb.csv", h.Export)
}

func (h *Handler) List(c *gin.Context) {
	sendStream := c.MustGet("sendStream").(func(middleware.StreamResponse))
	sendStream(h.svc.List(c.Request.Context(), c.Query("q")))
}

func (h *Handler) Create(c *gin.Context) {
	send := c.MustGet("send").(func(middleware.Response))

	var req CreateRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		send(middleware.Response{Error: err})
		return
	}

	result, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		send(middleware.Response{Error: err})
		return
	}

	send(middleware.Response{Code: http.StatusCreated, Data: result})
}

func (h *Handler) Export(c *gin.Context) {
	sendStream := c.MustGet("sendStream").(func(middleware.StreamResponse))
	sendStream(h.svc.Export(c.Request.Context()))
}
