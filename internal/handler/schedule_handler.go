package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cadet-admin-api/internal/models"
	"github.com/noah-isme/cadet-admin-api/internal/service"
	"github.com/noah-isme/cadet-admin-api/pkg/response"
)

type scheduleService interface {
	List(ctx context.Context, q service.ScheduleQuery) ([]models.ScheduleSlot, error)
	Week(ctx context.Context, classID int64) ([]models.ScheduleDay, error)
	Get(ctx context.Context, id int64) (*models.ClassScheduleDetail, error)
	Create(ctx context.Context, req service.ScheduleRequest) (*models.ClassSchedule, error)
	Update(ctx context.Context, id int64, req service.ScheduleRequest) (*models.ClassSchedule, error)
	Delete(ctx context.Context, id int64) error
}

// ScheduleHandler exposes the weekly class timetable.
type ScheduleHandler struct {
	schedule scheduleService
}

// NewScheduleHandler constructs ScheduleHandler.
func NewScheduleHandler(schedule scheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule}
}

// List godoc
// @Summary List schedule slots
// @Description weekView=true groups every slot into seven weekday buckets.
// @Tags Schedule
// @Produce json
// @Param day query int false "ISO weekday 1-7"
// @Param today query bool false "Only today's slots"
// @Param weekView query bool false "Group by weekday"
// @Param classId query int false "Filter by class"
// @Success 200 {array} models.ScheduleSlot
// @Failure 400 {object} response.ErrorBody
// @Router /class-schedule [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	classID, err := queryID(c, "classId")
	if err != nil {
		response.Error(c, err)
		return
	}
	if queryBool(c, "weekView") {
		week, err := h.schedule.Week(c.Request.Context(), classID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, week)
		return
	}
	day, err := queryInt(c, "day")
	if err != nil {
		response.Error(c, err)
		return
	}
	slots, err := h.schedule.List(c.Request.Context(), service.ScheduleQuery{Day: day, Today: queryBool(c, "today"), ClassID: classID})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots)
}

// Get godoc
// @Summary Get schedule slot
// @Tags Schedule
// @Produce json
// @Param id path int true "Schedule ID"
// @Success 200 {object} models.ClassScheduleDetail
// @Failure 404 {object} response.ErrorBody
// @Router /class-schedule/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	slot, err := h.schedule.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot)
}

// Create godoc
// @Summary Create schedule slot
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body service.ScheduleRequest true "Slot payload"
// @Success 200 {object} response.MutationResult
// @Failure 409 {object} response.ErrorBody
// @Router /class-schedule [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req service.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	slot, err := h.schedule.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &slot.ID)
}

// Update godoc
// @Summary Replace schedule slot
// @Tags Schedule
// @Accept json
// @Produce json
// @Param id path int true "Schedule ID"
// @Param payload body service.ScheduleRequest true "Slot payload"
// @Success 200 {object} response.MutationResult
// @Failure 409 {object} response.ErrorBody
// @Router /class-schedule/{id} [put]
func (h *ScheduleHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	slot, err := h.schedule.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &slot.ID)
}

// Delete godoc
// @Summary Delete schedule slot
// @Tags Schedule
// @Produce json
// @Param id path int true "Schedule ID"
// @Success 200 {object} response.MutationResult
// @Router /class-schedule/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.schedule.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
