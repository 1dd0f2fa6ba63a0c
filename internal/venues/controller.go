package venues

import (
	"errors"
	"net/http"

	"stagepass/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateTemplate handles POST /admin/venue-templates
func (c *Controller) CreateTemplate(ctx *gin.Context) {
	var req CreateTemplateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	template, err := c.service.CreateTemplate(ctx.Request.Context(), req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create template", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Template created successfully", template, nil)
}

// ListTemplates handles GET /admin/venue-templates
func (c *Controller) ListTemplates(ctx *gin.Context) {
	templates, err := c.service.ListTemplates(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list templates", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Templates retrieved successfully", templates, nil)
}

// DeleteTemplate handles DELETE /admin/venue-templates/:id
func (c *Controller) DeleteTemplate(ctx *gin.Context) {
	if err := c.service.DeleteTemplate(ctx.Request.Context(), ctx.Param("id")); err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrTemplateNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to delete template", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Template deleted successfully",
		map[string]string{"message": "template deleted"}, nil)
}

// CreateSection handles POST /admin/events/:eventId/sections
func (c *Controller) CreateSection(ctx *gin.Context) {
	var req CreateSectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	section, err := c.service.CreateSection(ctx.Request.Context(), ctx.Param("eventId"), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEventNotSeated):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Event does not use hall seating", nil, err.Error())
		case errors.Is(err, ErrTemplateNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Template not found", nil, err.Error())
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create section", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Section created successfully", section, nil)
}

// GetSectionsByEvent handles GET /admin/events/:eventId/sections
func (c *Controller) GetSectionsByEvent(ctx *gin.Context) {
	sections, err := c.service.GetSectionsByEvent(ctx.Request.Context(), ctx.Param("eventId"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get sections", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Sections retrieved successfully", sections, nil)
}

// UpdateSection handles PUT /admin/sections/:id
func (c *Controller) UpdateSection(ctx *gin.Context) {
	var req UpdateSectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	section, err := c.service.UpdateSection(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrSectionNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to update section", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Section updated successfully", section, nil)
}

// DeleteSection handles DELETE /admin/sections/:id
func (c *Controller) DeleteSection(ctx *gin.Context) {
	if err := c.service.DeleteSection(ctx.Request.Context(), ctx.Param("id")); err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrSectionNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to delete section", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Section deleted successfully",
		map[string]string{"message": "section deleted"}, nil)
}
