package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-routematch/internal/application"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/auth"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/middleware"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/response"
)

// AdminDeliveryHandler handles admin HTTP requests for delivery oversight.
type AdminDeliveryHandler struct {
	service *application.DeliveryService
}

// NewAdminDeliveryHandler creates a new AdminDeliveryHandler.
func NewAdminDeliveryHandler(service *application.DeliveryService) *AdminDeliveryHandler {
	return &AdminDeliveryHandler{service: service}
}

// RegisterRoutes registers admin delivery routes.
func (h *AdminDeliveryHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	adminRole := middleware.RequireRole(auth.RoleAdmin)

	admin := r.Group("/api/v1/admin")
	admin.Use(authMW, adminRole)
	{
		admin.GET("/deliveries", h.ListDeliveries)
		admin.GET("/stats/deliveries", h.DeliveryStats)
	}
}

// ListDeliveries handles GET /api/v1/admin/deliveries.
func (h *AdminDeliveryHandler) ListDeliveries(c *gin.Context) {
	page, limit := parsePagination(c)

	deliveries, total, err := h.service.ListAllDeliveries(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, deliveries, total, page, limit)
}

// DeliveryStats handles GET /api/v1/admin/stats/deliveries.
func (h *AdminDeliveryHandler) DeliveryStats(c *gin.Context) {
	stats, err := h.service.GetDeliveryStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}
