package routes

import (
	"freightlink/internal/handlers"
	"freightlink/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupFleetRoutes(api *gin.RouterGroup, handler *handlers.FleetHandler, jwtSecret string) {
	fleet := api.Group("/fleet")
	fleet.Use(middleware.AuthRequired(jwtSecret))
	{
		fleet.GET("/status", handler.FleetStatus)
	}
}
