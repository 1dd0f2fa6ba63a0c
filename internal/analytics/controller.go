package analytics

import (
	"errors"
	"net/http"

	"stagepass/internal/events"
	"stagepass/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// OrganizerDashboard handles GET /analytics/dashboard
func (c *Controller) OrganizerDashboard(ctx *gin.Context) {
	organizerID := ctx.GetString("user_id")
	if organizerID == "" {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, "missing user context")
		return
	}

	dashboard, err := c.service.OrganizerDashboard(ctx.Request.Context(), organizerID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to build dashboard", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Dashboard retrieved successfully", dashboard, nil)
}

// EventDashboard handles GET /analytics/events/:eventId
func (c *Controller) EventDashboard(ctx *gin.Context) {
	organizerID := ctx.GetString("user_id")
	if organizerID == "" {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, "missing user context")
		return
	}

	dashboard, err := c.service.EventDashboard(ctx.Request.Context(), organizerID, ctx.Param("eventId"))
	if err != nil {
		switch {
		case errors.Is(err, events.ErrEventNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Event not found", nil, err.Error())
		case errors.Is(err, ErrNotEventOwner):
			response.RespondJSON(ctx, "error", http.StatusForbidden, "Event belongs to another organizer", nil, err.Error())
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to build dashboard", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Dashboard retrieved successfully", dashboard, nil)
}
