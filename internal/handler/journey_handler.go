package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Kilat-Pet-Delivery/service-routematch/internal/application"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/auth"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/middleware"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/response"
)

// JourneyHandler handles HTTP requests for travelers' journeys.
type JourneyHandler struct {
	journeys   *application.JourneyService
	deliveries *application.DeliveryService
}

// NewJourneyHandler creates a new JourneyHandler.
func NewJourneyHandler(journeys *application.JourneyService, deliveries *application.DeliveryService) *JourneyHandler {
	return &JourneyHandler{journeys: journeys, deliveries: deliveries}
}

// RegisterRoutes registers all journey routes.
func (h *JourneyHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	travelerRole := middleware.RequireRole(auth.RoleTraveler)

	journeys := r.Group("/api/v1/journeys")
	journeys.Use(authMW, travelerRole)
	{
		journeys.POST("", h.CreateJourney)
		journeys.GET("", h.GetMyJourneys)
		journeys.PUT("/:id", h.UpdateJourneyStatus)
		journeys.GET("/:id/orders", h.JourneyOrders)
	}
}

// CreateJourney announces a new trip.
func (h *JourneyHandler) CreateJourney(c *gin.Context) {
	travelerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.CreateJourneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.journeys.CreateJourney(c.Request.Context(), travelerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetMyJourneys lists the traveler's journeys.
func (h *JourneyHandler) GetMyJourneys(c *gin.Context) {
	travelerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	result, err := h.journeys.GetMyJourneys(c.Request.Context(), travelerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateJourneyStatus completes or cancels a journey.
func (h *JourneyHandler) UpdateJourneyStatus(c *gin.Context) {
	travelerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	journeyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid journey ID")
		return
	}

	var req application.UpdateJourneyStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.journeys.UpdateJourneyStatus(c.Request.Context(), travelerID, journeyID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// JourneyOrders lists pending deliveries on a stored journey. The optional strategy and
// radius_km query parameters override the configured defaults.
func (h *JourneyHandler) JourneyOrders(c *gin.Context) {
	travelerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	journeyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid journey ID")
		return
	}

	var radiusKm float64
	if raw := c.Query("radius_km"); raw != "" {
		radiusKm, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			response.BadRequest(c, "invalid radius_km")
			return
		}
	}

	result, err := h.deliveries.CheckJourneyOrders(c.Request.Context(), travelerID, journeyID, c.Query("strategy"), radiusKm)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
