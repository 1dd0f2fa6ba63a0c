package tickettypes

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

// GetCustomerView handles GET /ticket-types/event/:eventId/customer
func (c *Controller) GetCustomerView(ctx *gin.Context) {
	view, err := c.service.GetCustomerView(ctx.Request.Context(), ctx.Param("eventId"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get ticket types", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Ticket types retrieved successfully", view, nil)
}

// GetByEvent handles GET /admin/events/:eventId/ticket-types
func (c *Controller) GetByEvent(ctx *gin.Context) {
	ticketTypes, err := c.service.GetByEvent(ctx.Request.Context(), ctx.Param("eventId"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get ticket types", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Ticket types retrieved successfully", ticketTypes, nil)
}

// Create handles POST /admin/events/:eventId/ticket-types
func (c *Controller) Create(ctx *gin.Context) {
	var req CreateTicketTypeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	ticketType, err := c.service.Create(ctx.Request.Context(), ctx.Param("eventId"), req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create ticket type", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Ticket type created successfully", ticketType, nil)
}

// Update handles PUT /admin/ticket-types/:id
func (c *Controller) Update(ctx *gin.Context) {
	var req UpdateTicketTypeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	ticketType, err := c.service.Update(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrTicketTypeNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to update ticket type", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Ticket type updated successfully", ticketType, nil)
}

// Delete handles DELETE /admin/ticket-types/:id
func (c *Controller) Delete(ctx *gin.Context) {
	if err := c.service.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrTicketTypeNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to delete ticket type", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Ticket type deleted successfully",
		map[string]string{"message": "ticket type deleted"}, nil)
}
