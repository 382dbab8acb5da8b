package tickets

import (
	"net/http"

	"devdesk/common"
	"devdesk/middleware"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for tickets
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler
func NewHandler(service *Service) *Handler {
	return &Handler{svc: service}
}

// RegisterRoutes registers the ticket routes on the /api group.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/tickets", h.List)
	api.POST("/tickets", h.Create)
	api.PATCH("/tickets/:id", h.UpdateStatus)
	api.GET("/tickets.csv", h.Export)
}

// List handles GET /api/tickets
func (h *Handler) List(c *gin.Context) {
	sendStream := c.MustGet("sendStream").(func(middleware.StreamResponse))

	params := SearchParams{
		Q:        c.Query("q"),
		Status:   c.Query("status"),
		Category: c.Query("category"),
	}

	sendStream(h.svc.List(c.Request.Context(), params))
}

// Create handles POST /api/tickets
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

// UpdateStatus handles PATCH /api/tickets/:id
func (h *Handler) UpdateStatus(c *gin.Context) {
	send := c.MustGet("send").(func(middleware.Response))

	var req StatusRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		send(middleware.Response{Error: err})
		return
	}

	if err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		send(middleware.Response{Error: err})
		return
	}

	send(middleware.Response{Data: common.Ack{OK: true}})
}

// Export handles GET /api/tickets.csv
func (h *Handler) Export(c *gin.Context) {
	sendStream := c.MustGet("sendStream").(func(middleware.StreamResponse))
	sendStream(h.svc.Export(c.Request.Context()))
}
