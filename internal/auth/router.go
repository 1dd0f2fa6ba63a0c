package auth

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the organizer auth endpoints.
func SetupRoutes(rg *gin.RouterGroup, controller *Controller) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", controller.Register)
		authGroup.POST("/login", controller.Login)
	}
}
