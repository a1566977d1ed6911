package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fast-lane/service-core/internal/application"
	"github.com/fast-lane/service-core/internal/auth"
	"github.com/fast-lane/service-core/internal/middleware"
	"github.com/fast-lane/service-core/internal/response"
)

// DeliveryHandler serves the delivery order endpoints.
type DeliveryHandler struct {
	orders *application.DeliveryService
}

// NewDeliveryHandler creates a new DeliveryHandler.
func NewDeliveryHandler(orders *application.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{orders: orders}
}

// RegisterRoutes mounts the delivery order routes on the API group.
func (h *DeliveryHandler) RegisterRoutes(rg *gin.RouterGroup, jwtManager *auth.JWTManager) {
	orders := rg.Group("/delivery-orders")
	orders.Use(middleware.AuthMiddleware(jwtManager))
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.POST("/:id/accept", h.Accept)
		orders.PUT("/:id/status", h.UpdateStatus)
	}
}

// Create handles POST /delivery-orders.
func (h *DeliveryHandler) Create(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	var req application.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	dto, err := h.orders.CreateOrder(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto)
}

// List handles GET /delivery-orders.
func (h *DeliveryHandler) List(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	page, limit := parsePagination(c)

	result, err := h.orders.ListOrders(c.Request.Context(), actor, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// Get handles GET /delivery-orders/:id.
func (h *DeliveryHandler) Get(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	dto, err := h.orders.GetOrder(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// Accept handles POST /delivery-orders/:id/accept.
func (h *DeliveryHandler) Accept(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	dto, err := h.orders.AcceptOrder(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PUT /delivery-orders/:id/status.
func (h *DeliveryHandler) UpdateStatus(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	dto, err := h.orders.UpdateStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}
