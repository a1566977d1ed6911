package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fast-lane/service-core/internal/application"
	"github.com/fast-lane/service-core/internal/auth"
	"github.com/fast-lane/service-core/internal/middleware"
	"github.com/fast-lane/service-core/internal/response"
)

// ReviewHandler serves the review endpoints.
type ReviewHandler struct {
	reviews *application.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviews *application.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// RegisterRoutes mounts the review routes on the API group.
func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup, jwtManager *auth.JWTManager) {
	rg.GET("/reviews", h.List)

	authed := rg.Group("/reviews")
	authed.Use(middleware.AuthMiddleware(jwtManager))
	{
		authed.POST("", h.Submit)
	}
}

// Submit handles POST /reviews.
func (h *ReviewHandler) Submit(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	var req application.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	dto, err := h.reviews.SubmitReview(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto)
}

// List handles GET /reviews?target_type=&target_id=.
func (h *ReviewHandler) List(c *gin.Context) {
	targetType := c.Query("target_type")
	if targetType == "" {
		response.BadRequest(c, "target_type query parameter is required")
		return
	}
	targetID, err := uuid.Parse(c.Query("target_id"))
	if err != nil {
		response.BadRequest(c, "target_id must be a valid UUID")
		return
	}

	page, limit := parsePagination(c)
	result, err := h.reviews.ListReviews(c.Request.Context(), targetType, targetID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}
