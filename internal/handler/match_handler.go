package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-routematch/internal/application"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/auth"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/middleware"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/response"
)

// MatchHandler exposes the route matcher to any authenticated caller.
type MatchHandler struct {
	service *application.MatchService
}

// NewMatchHandler creates a new MatchHandler.
func NewMatchHandler(service *application.MatchService) *MatchHandler {
	return &MatchHandler{service: service}
}

// RegisterRoutes registers POST /api/v1/match.
func (h *MatchHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	r.POST("/api/v1/match", middleware.AuthMiddleware(jwtManager), h.Match)
}

// Match evaluates one candidate against one route.
func (h *MatchHandler) Match(c *gin.Context) {
	var req application.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Evaluate(req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
