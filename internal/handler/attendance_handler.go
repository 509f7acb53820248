package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cadet-admin-api/internal/models"
	"github.com/noah-isme/cadet-admin-api/internal/service"
	"github.com/noah-isme/cadet-admin-api/pkg/response"
)

type attendanceService interface {
	List(ctx context.Context, date *time.Time, classID int64) ([]models.AttendanceRecord, error)
	Record(ctx context.Context, req service.AttendanceRequest) (*models.Attendance, error)
	RecentAbsences(ctx context.Context, days int) ([]models.AttendanceRecord, error)
}

// AttendanceHandler exposes attendance marking.
type AttendanceHandler struct {
	attendance attendanceService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance attendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// List godoc
// @Summary List attendance of a day
// @Tags Attendance
// @Produce json
// @Param date query string false "YYYY-MM-DD (default today)"
// @Param classId query int false "Filter by class"
// @Success 200 {array} models.AttendanceRecord
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	date, err := queryDate(c, "date")
	if err != nil {
		response.Error(c, err)
		return
	}
	classID, err := queryID(c, "classId")
	if err != nil {
		response.Error(c, err)
		return
	}
	records, err := h.attendance.List(c.Request.Context(), date, classID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records)
}

// Record godoc
// @Summary Mark attendance
// @Description Replaces an earlier mark of the same student, class and date.
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.AttendanceRequest true "Attendance payload"
// @Success 200 {object} response.MutationResult
// @Failure 400 {object} response.ErrorBody
// @Router /attendance [post]
func (h *AttendanceHandler) Record(c *gin.Context) {
	var req service.AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	if _, err := h.attendance.Record(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Absences godoc
// @Summary Recent absences
// @Tags Attendance
// @Produce json
// @Param days query int false "Window in days (default 7)"
// @Success 200 {array} models.AttendanceRecord
// @Router /absences [get]
func (h *AttendanceHandler) Absences(c *gin.Context) {
	days, err := queryDays(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	records, err := h.attendance.RecentAbsences(c.Request.Context(), days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records)
}
