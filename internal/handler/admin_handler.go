package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fast-lane/service-core/internal/application"
	"github.com/fast-lane/service-core/internal/auth"
	"github.com/fast-lane/service-core/internal/middleware"
	"github.com/fast-lane/service-core/internal/response"
)

// AdminHandler serves the admin listings, verification, and stats endpoints.
type AdminHandler struct {
	properties *application.PropertyService
	bookings   *application.BookingService
	orders     *application.DeliveryService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	properties *application.PropertyService,
	bookings *application.BookingService,
	orders *application.DeliveryService,
) *AdminHandler {
	return &AdminHandler{
		properties: properties,
		bookings:   bookings,
		orders:     orders,
	}
}

// RegisterRoutes mounts the admin routes on the API group.
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.POST("/properties/:id/verify", h.VerifyProperty)
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/stats/bookings", h.BookingStats)
		admin.GET("/stats/delivery-orders", h.OrderStats)
	}
}

// VerifyProperty handles POST /admin/properties/:id/verify.
func (h *AdminHandler) VerifyProperty(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	dto, err := h.properties.VerifyProperty(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// ListBookings handles GET /admin/bookings.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c)

	items, total, err := h.bookings.ListAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, items, total, page, limit)
}

// BookingStats handles GET /admin/stats/bookings.
func (h *AdminHandler) BookingStats(c *gin.Context) {
	stats, err := h.bookings.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

// OrderStats handles GET /admin/stats/delivery-orders.
func (h *AdminHandler) OrderStats(c *gin.Context) {
	stats, err := h.orders.GetOrderStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}
