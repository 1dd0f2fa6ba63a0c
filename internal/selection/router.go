package selection

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the selection session flow. Everything is keyed by
// the session id issued at start; there is no account requirement to buy a
// ticket.
func SetupRoutes(rg *gin.RouterGroup, controller *Controller) {
	selection := rg.Group("/selection")
	{
		selection.POST("/start", controller.Start)
		selection.GET("/:sessionId", controller.Get)
		selection.GET("/:sessionId/countdown", controller.Countdown)
		selection.POST("/:sessionId/seats", controller.SelectSeat)
		selection.DELETE("/:sessionId/seats/:seatId", controller.DeselectSeat)
		selection.PUT("/:sessionId/general-tickets", controller.SetGeneralTickets)
		selection.POST("/:sessionId/checkout", controller.Checkout)
	}
}
