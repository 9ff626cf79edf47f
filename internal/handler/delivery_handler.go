package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Kilat-Pet-Delivery/service-routematch/internal/application"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/auth"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/middleware"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/response"
)

// DeliveryHandler handles HTTP requests for delivery operations.
type DeliveryHandler struct {
	service *application.DeliveryService
}

// NewDeliveryHandler creates a new DeliveryHandler.
func NewDeliveryHandler(service *application.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{service: service}
}

// RegisterRoutes registers all delivery routes on the given router group.
func (h *DeliveryHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	senderOnly := middleware.RequireRole(auth.RoleSender)
	travelerOnly := middleware.RequireRole(auth.RoleTraveler)

	deliveries := r.Group("/api/v1/deliveries")
	deliveries.Use(authMW)
	{
		deliveries.POST("", senderOnly, h.CreateDelivery)
		deliveries.GET("", senderOnly, h.MyDeliveries)
		deliveries.POST("/check-orders", travelerOnly, h.CheckOrders)
		deliveries.GET("/jobs", travelerOnly, h.MyJobs)
		deliveries.PUT("/:id/accept", travelerOnly, h.AcceptDelivery)
		deliveries.PUT("/:id/start", travelerOnly, h.StartDelivery)
		deliveries.PUT("/:id/complete", travelerOnly, h.CompleteDelivery)
		deliveries.PUT("/:id/cancel", senderOnly, h.CancelDelivery)
	}
}

// CreateDelivery handles POST /api/v1/deliveries.
func (h *DeliveryHandler) CreateDelivery(c *gin.Context) {
	senderID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.CreateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateDelivery(c.Request.Context(), senderID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// MyDeliveries handles GET /api/v1/deliveries.
func (h *DeliveryHandler) MyDeliveries(c *gin.Context) {
	senderID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.GetMyDeliveries(c.Request.Context(), senderID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// MyJobs handles GET /api/v1/deliveries/jobs.
func (h *DeliveryHandler) MyJobs(c *gin.Context) {
	travelerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.GetMyJobs(c.Request.Context(), travelerID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// CheckOrders handles POST /api/v1/deliveries/check-orders.
func (h *DeliveryHandler) CheckOrders(c *gin.Context) {
	travelerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.CheckOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CheckAvailableOrders(c.Request.Context(), travelerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// AcceptDelivery handles PUT /api/v1/deliveries/:id/accept.
func (h *DeliveryHandler) AcceptDelivery(c *gin.Context) {
	h.travelerAction(c, h.service.AcceptDelivery)
}

// StartDelivery handles PUT /api/v1/deliveries/:id/start.
func (h *DeliveryHandler) StartDelivery(c *gin.Context) {
	h.travelerAction(c, h.service.StartDelivery)
}

// CompleteDelivery handles PUT /api/v1/deliveries/:id/complete.
func (h *DeliveryHandler) CompleteDelivery(c *gin.Context) {
	var body struct {
		OTP string `json:"otp" binding:"required,len=6,numeric"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	h.travelerAction(c, func(ctx context.Context, deliveryID, travelerID uuid.UUID) (*application.DeliveryDTO, error) {
		return h.service.CompleteDelivery(ctx, deliveryID, travelerID, body.OTP)
	})
}

// CancelDelivery handles PUT /api/v1/deliveries/:id/cancel.
func (h *DeliveryHandler) CancelDelivery(c *gin.Context) {
	deliveryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid delivery ID")
		return
	}

	senderID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	result, err := h.service.CancelDelivery(c.Request.Context(), deliveryID, senderID, body.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

type deliveryAction func(ctx context.Context, deliveryID, travelerID uuid.UUID) (*application.DeliveryDTO, error)

func (h *DeliveryHandler) travelerAction(c *gin.Context, action deliveryAction) {
	deliveryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid delivery ID")
		return
	}

	travelerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	result, err := action(c.Request.Context(), deliveryID, travelerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}
