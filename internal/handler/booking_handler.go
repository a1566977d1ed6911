package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fast-lane/service-core/internal/application"
	"github.com/fast-lane/service-core/internal/auth"
	"github.com/fast-lane/service-core/internal/middleware"
	"github.com/fast-lane/service-core/internal/response"
)

// BookingHandler serves the booking lifecycle endpoints.
type BookingHandler struct {
	bookings *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookings *application.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// RegisterRoutes mounts the booking routes on the API group.
func (h *BookingHandler) RegisterRoutes(rg *gin.RouterGroup, jwtManager *auth.JWTManager) {
	rg.GET("/properties/:id/availability", h.CheckAvailability)

	bookings := rg.Group("/bookings")
	bookings.Use(middleware.AuthMiddleware(jwtManager))
	{
		bookings.POST("", h.Create)
		bookings.GET("", h.List)
		bookings.GET("/:id", h.Get)
		bookings.PUT("/:id/cancel", h.Cancel)
		bookings.PUT("/:id/complete", h.Complete)
	}
}

// Create handles POST /bookings.
func (h *BookingHandler) Create(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	dto, err := h.bookings.CreateBooking(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto)
}

// CheckAvailability handles GET /properties/:id/availability.
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	checkIn := c.Query("check_in")
	checkOut := c.Query("check_out")
	if checkIn == "" || checkOut == "" {
		response.BadRequest(c, "check_in and check_out query parameters are required")
		return
	}

	availability, err := h.bookings.CheckAvailability(c.Request.Context(), id, checkIn, checkOut)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, availability)
}

// List handles GET /bookings.
func (h *BookingHandler) List(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	page, limit := parsePagination(c)

	result, err := h.bookings.ListBookings(c.Request.Context(), actor, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// Get handles GET /bookings/:id.
func (h *BookingHandler) Get(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	dto, err := h.bookings.GetBooking(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

// Cancel handles PUT /bookings/:id/cancel.
func (h *BookingHandler) Cancel(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req cancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "invalid request body: "+err.Error())
			return
		}
	}

	dto, err := h.bookings.CancelBooking(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// Complete handles PUT /bookings/:id/complete.
func (h *BookingHandler) Complete(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	dto, err := h.bookings.CompleteBooking(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}
