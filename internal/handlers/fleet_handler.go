package handlers

import (
	"freightlink/internal/models"
	"freightlink/internal/services"
	"freightlink/internal/utils"
	"freightlink/pkg/logger"

	"github.com/gin-gonic/gin"
)

type FleetHandler struct {
	fleetService services.FleetStatusService
	logger       *logger.Logger
}

func NewFleetHandler(fleetService services.FleetStatusService, logger *logger.Logger) *FleetHandler {
	return &FleetHandler{
		fleetService: fleetService,
		logger:       logger,
	}
}

// FleetStatus handles GET /fleet/status. The summary always tallies the
// whole fleet; ?status= narrows only the listed members.
func (h *FleetHandler) FleetStatus(c *gin.Context) {
	filter := models.FleetStatus(c.Query("status"))
	if filter != "" && !filter.Valid() {
		utils.BadRequestResponse(c, "unknown fleet status: "+string(filter))
		return
	}

	report, err := h.fleetService.FleetOverview(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Fleet")
		return
	}

	utils.SuccessResponse(c, "Fleet status retrieved successfully", report)
}
