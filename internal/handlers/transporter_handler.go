package handlers

import (
	"freightlink/internal/models"
	"freightlink/internal/services"
	"freightlink/internal/utils"
	"freightlink/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TransporterHandler struct {
	transporterService services.TransporterService
	routeScanner       services.RouteScannerService
	logger             *logger.Logger
}

func NewTransporterHandler(
	transporterService services.TransporterService,
	routeScanner services.RouteScannerService,
	logger *logger.Logger,
) *TransporterHandler {
	return &TransporterHandler{
		transporterService: transporterService,
		routeScanner:       routeScanner,
		logger:             logger,
	}
}

// RouteLoads handles GET /transporters/:id/route-loads: unassigned bookings
// compatible with the transporter's route, vehicle and schedule.
func (h *TransporterHandler) RouteLoads(c *gin.Context) {
	transporterID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid transporter id")
		return
	}

	loads, err := h.routeScanner.FindCompatibleLoads(c.Request.Context(), transporterID)
	if err != nil {
		respondError(c, err, "Transporter")
		return
	}

	utils.SuccessResponseWithMeta(c, "Compatible loads retrieved successfully", loads, &utils.Meta{
		Count: len(loads),
	})
}

type locationUpdateRequest struct {
	Lat     float64 `json:"lat" binding:"required,min=-90,max=90"`
	Lng     float64 `json:"lng" binding:"required,min=-180,max=180"`
	Address string  `json:"address"`
}

// UpdateLocation handles PUT /transporters/:id/location, feeding the rolling
// route history.
func (h *TransporterHandler) UpdateLocation(c *gin.Context) {
	transporterID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid transporter id")
		return
	}

	var req locationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "lat and lng are required")
		return
	}

	location := models.GeoPoint{Lat: req.Lat, Lng: req.Lng, Address: req.Address}
	if err := h.transporterService.ReportLocation(c.Request.Context(), transporterID, location); err != nil {
		respondError(c, err, "Transporter")
		return
	}

	utils.SuccessResponse(c, "Location updated successfully", nil)
}

type availabilityRequest struct {
	AcceptingBooking *bool `json:"acceptingBooking" binding:"required"`
}

// UpdateAvailability handles PUT /transporters/:id/availability.
func (h *TransporterHandler) UpdateAvailability(c *gin.Context) {
	transporterID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid transporter id")
		return
	}

	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "acceptingBooking is required")
		return
	}

	if err := h.transporterService.SetAvailability(c.Request.Context(), transporterID, *req.AcceptingBooking); err != nil {
		respondError(c, err, "Transporter")
		return
	}

	utils.SuccessResponse(c, "Availability updated successfully", nil)
}

// GetTransporter handles GET /transporters/:id.
func (h *TransporterHandler) GetTransporter(c *gin.Context) {
	transporterID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid transporter id")
		return
	}

	transporter, err := h.transporterService.GetTransporter(c.Request.Context(), transporterID)
	if err != nil {
		respondError(c, err, "Transporter")
		return
	}

	utils.SuccessResponse(c, "Transporter retrieved successfully", transporter)
}
