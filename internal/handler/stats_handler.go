package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cadet-admin-api/internal/dto"
	"github.com/noah-isme/cadet-admin-api/internal/middleware"
	"github.com/noah-isme/cadet-admin-api/pkg/response"
)

type statsService interface {
	AttendanceRate(ctx context.Context, days int) (*dto.AttendanceRateResponse, bool, error)
	StudentStats(ctx context.Context) (*dto.StudentStatsResponse, bool, error)
	ClassStats(ctx context.Context) (*dto.ClassStatsResponse, bool, error)
	GradeStats(ctx context.Context) (*dto.GradeStatsResponse, bool, error)
}

// StatsHandler exposes the aggregate statistics. Responses carry X-Cache: HIT
// when served from Redis.
type StatsHandler struct {
	stats statsService
}

// NewStatsHandler constructs StatsHandler.
func NewStatsHandler(stats statsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// AttendanceRate godoc
// @Summary Attendance rate with change against the previous window
// @Tags Stats
// @Produce json
// @Param days query int false "Window in days (default 30)"
// @Success 200 {object} dto.AttendanceRateResponse
// @Router /attendance-rate [get]
func (h *StatsHandler) AttendanceRate(c *gin.Context) {
	days, err := queryDays(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	rate, hit, err := h.stats.AttendanceRate(c.Request.Context(), days)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, rate)
}

// Students godoc
// @Summary Roster statistics
// @Tags Stats
// @Produce json
// @Success 200 {object} dto.StudentStatsResponse
// @Router /students/stats [get]
func (h *StatsHandler) Students(c *gin.Context) {
	stats, hit, err := h.stats.StudentStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, stats)
}

// Classes godoc
// @Summary Class statistics
// @Tags Stats
// @Produce json
// @Success 200 {object} dto.ClassStatsResponse
// @Router /classes/stats [get]
func (h *StatsHandler) Classes(c *gin.Context) {
	stats, hit, err := h.stats.ClassStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, stats)
}

// Grades godoc
// @Summary Grade statistics
// @Tags Stats
// @Produce json
// @Success 200 {object} dto.GradeStatsResponse
// @Router /grades/stats [get]
func (h *StatsHandler) Grades(c *gin.Context) {
	stats, hit, err := h.stats.GradeStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, stats)
}
