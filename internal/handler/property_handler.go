package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fast-lane/service-core/internal/application"
	"github.com/fast-lane/service-core/internal/auth"
	"github.com/fast-lane/service-core/internal/middleware"
	"github.com/fast-lane/service-core/internal/response"
)

// PropertyHandler serves the property catalog endpoints.
type PropertyHandler struct {
	properties *application.PropertyService
}

// NewPropertyHandler creates a new PropertyHandler.
func NewPropertyHandler(properties *application.PropertyService) *PropertyHandler {
	return &PropertyHandler{properties: properties}
}

// RegisterRoutes mounts the property routes on the API group.
func (h *PropertyHandler) RegisterRoutes(rg *gin.RouterGroup, jwtManager *auth.JWTManager) {
	props := rg.Group("/properties")
	{
		props.GET("", h.List)
		props.GET("/:id", h.Get)
	}

	authed := rg.Group("/properties")
	authed.Use(middleware.AuthMiddleware(jwtManager))
	{
		authed.POST("", h.Create)
		authed.GET("/mine", h.ListMine)
		authed.PUT("/:id", h.Update)
		authed.DELETE("/:id", h.Delete)
	}
}

// Create handles POST /properties.
func (h *PropertyHandler) Create(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	var req application.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	dto, err := h.properties.CreateProperty(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto)
}

// List handles GET /properties.
func (h *PropertyHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)
	quarter := c.Query("quarter")

	result, err := h.properties.ListProperties(c.Request.Context(), quarter, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// ListMine handles GET /properties/mine.
func (h *PropertyHandler) ListMine(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	page, limit := parsePagination(c)

	result, err := h.properties.ListHostProperties(c.Request.Context(), actor, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// Get handles GET /properties/:id.
func (h *PropertyHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	dto, err := h.properties.GetProperty(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// Update handles PUT /properties/:id.
func (h *PropertyHandler) Update(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req application.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	dto, err := h.properties.UpdateProperty(c.Request.Context(), actor, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// Delete handles DELETE /properties/:id.
func (h *PropertyHandler) Delete(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.properties.DeleteProperty(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
