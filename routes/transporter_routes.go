package routes

import (
	"freightlink/internal/handlers"
	"freightlink/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupTransporterRoutes(api *gin.RouterGroup, handler *handlers.TransporterHandler, jwtSecret string) {
	transporters := api.Group("/transporters")
	transporters.Use(middleware.AuthRequired(jwtSecret))
	{
		transporters.GET("/:id", handler.GetTransporter)
		transporters.GET("/:id/route-loads", handler.RouteLoads)
		transporters.PUT("/:id/location", handler.UpdateLocation)
		transporters.PUT("/:id/availability", handler.UpdateAvailability)
	}
}
