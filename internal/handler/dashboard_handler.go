package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cadet-admin-api/internal/dto"
	"github.com/noah-isme/cadet-admin-api/pkg/response"
)

type dashboardService interface {
	Summary(ctx context.Context) *dto.DashboardResponse
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Summary godoc
// @Summary Dashboard widgets
// @Description Always 200. A widget that failed carries an error instead of data.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} dto.DashboardResponse
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Summary(c.Request.Context()))
}
