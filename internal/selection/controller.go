package selection

import (
	"errors"
	"net/http"

	"stagepass/internal/events"
	"stagepass/internal/seats"
	"stagepass/internal/shared/utils/response"
	"stagepass/internal/tickettypes"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// Start handles POST /selection/start
func (c *Controller) Start(ctx *gin.Context) {
	var req StartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	state, err := c.service.Start(ctx.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, events.ErrEventNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Event not found", nil, err.Error())
		case errors.Is(err, ErrEventNotOnSale):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Event is not open for sale", nil, err.Error())
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to start session", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Session started successfully", state, nil)
}

// Get handles GET /selection/:sessionId
func (c *Controller) Get(ctx *gin.Context) {
	state, err := c.service.Get(ctx.Request.Context(), ctx.Param("sessionId"))
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrSessionNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to get selection", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Selection retrieved successfully", state, nil)
}

// SelectSeat handles POST /selection/:sessionId/seats
func (c *Controller) SelectSeat(ctx *gin.Context) {
	var req SelectSeatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	state, err := c.service.SelectSeat(ctx.Request.Context(), ctx.Param("sessionId"), req.SeatID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Session not found", nil, err.Error())
		case errors.Is(err, seats.ErrSeatNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Seat not found", nil, err.Error())
		case errors.Is(err, ErrSeatPending):
			response.RespondJSON(ctx, "error", http.StatusTooManyRequests, "Seat request already in progress", nil, err.Error())
		case errors.Is(err, seats.ErrSeatNotAvailable), errors.Is(err, seats.ErrSeatHeld):
			response.RespondJSON(ctx, "error", http.StatusConflict, "Seat is not available", nil, err.Error())
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to select seat", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seat selected successfully", state, nil)
}

// DeselectSeat handles DELETE /selection/:sessionId/seats/:seatId
func (c *Controller) DeselectSeat(ctx *gin.Context) {
	state, err := c.service.DeselectSeat(ctx.Request.Context(), ctx.Param("sessionId"), ctx.Param("seatId"))
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrSessionNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to deselect seat", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seat deselected successfully", state, nil)
}

// SetGeneralTickets handles PUT /selection/:sessionId/general-tickets
func (c *Controller) SetGeneralTickets(ctx *gin.Context) {
	var req SetGeneralTicketsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	state, err := c.service.SetGeneralTickets(ctx.Request.Context(), ctx.Param("sessionId"), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionNotFound), errors.Is(err, tickettypes.ErrTicketTypeNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Not found", nil, err.Error())
		case errors.Is(err, tickettypes.ErrInsufficientCapacity):
			response.RespondJSON(ctx, "error", http.StatusConflict, "Not enough tickets remaining", nil, err.Error())
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update tickets", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Tickets updated successfully", state, nil)
}

// Countdown handles GET /selection/:sessionId/countdown
func (c *Controller) Countdown(ctx *gin.Context) {
	countdown, err := c.service.Countdown(ctx.Request.Context(), ctx.Param("sessionId"))
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrSessionNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to get countdown", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Countdown retrieved successfully", countdown, nil)
}

// Checkout handles POST /selection/:sessionId/checkout
func (c *Controller) Checkout(ctx *gin.Context) {
	result, err := c.service.Checkout(ctx.Request.Context(), ctx.Param("sessionId"))
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Session not found", nil, err.Error())
		case errors.Is(err, ErrNothingToBook):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Selection is empty", nil, err.Error())
		case errors.Is(err, ErrHoldLapsed), errors.Is(err, tickettypes.ErrInsufficientCapacity):
			response.RespondJSON(ctx, "error", http.StatusConflict, "Selection is no longer valid", nil, err.Error())
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Checkout failed", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Checkout completed successfully", result, nil)
}
