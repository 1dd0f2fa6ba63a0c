package seats

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

// Reserve handles POST /seats/reserve
func (c *Controller) Reserve(ctx *gin.Context) {
	var req ReserveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	result, err := c.service.Reserve(ctx.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSeatNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Seat not found", nil, err.Error())
		case errors.Is(err, ErrSeatNotAvailable), errors.Is(err, ErrSeatHeld):
			response.RespondJSON(ctx, "error", http.StatusConflict, "Seat is not available", nil, err.Error())
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to reserve seat", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seat reserved successfully", result, nil)
}

// Release handles POST /seats/release
func (c *Controller) Release(ctx *gin.Context) {
	var req ReleaseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	if err := c.service.Release(ctx.Request.Context(), req); err != nil {
		switch {
		case errors.Is(err, ErrSeatNotFound), errors.Is(err, ErrHoldNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Hold not found", nil, err.Error())
		case errors.Is(err, ErrHoldNotOwner):
			response.RespondJSON(ctx, "error", http.StatusForbidden, "Hold owned by another session", nil, err.Error())
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to release seat", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seat released successfully",
		map[string]string{"message": "seat released"}, nil)
}

// EventLayout handles GET /seats/event/:eventId/layout
func (c *Controller) EventLayout(ctx *gin.Context) {
	eventID := ctx.Param("eventId")
	if eventID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Event ID is required", nil, "missing event ID")
		return
	}

	layout, err := c.service.EventLayout(ctx.Request.Context(), eventID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get layout", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Layout retrieved successfully", layout, nil)
}

// ReservationStatus handles GET /reservations/event/:eventId/status
func (c *Controller) ReservationStatus(ctx *gin.Context) {
	eventID := ctx.Param("eventId")
	if eventID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Event ID is required", nil, "missing event ID")
		return
	}

	// Optional: lets the caller see which holds are its own.
	sessionID := ctx.Query("session_id")

	status, err := c.service.ReservationStatus(ctx.Request.Context(), eventID, sessionID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get reservation status", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservation status retrieved successfully", status, nil)
}

// GetSeatsBySection handles GET /seats/section/:sectionId
func (c *Controller) GetSeatsBySection(ctx *gin.Context) {
	sectionID := ctx.Param("sectionId")
	if sectionID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Section ID is required", nil, "missing section ID")
		return
	}

	seats, err := c.service.GetSeatsBySection(ctx.Request.Context(), sectionID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get seats", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seats retrieved successfully", seats, nil)
}

// BlockSeat handles PUT /seats/:id/block
func (c *Controller) BlockSeat(ctx *gin.Context) {
	seat, err := c.service.BlockSeat(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrSeatNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to block seat", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seat blocked successfully", seat, nil)
}
