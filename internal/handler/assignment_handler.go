package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cadet-admin-api/internal/models"
	"github.com/noah-isme/cadet-admin-api/internal/service"
	"github.com/noah-isme/cadet-admin-api/pkg/response"
)

type assignmentService interface {
	List(ctx context.Context, q service.AssignmentQuery) ([]models.AssignmentDetail, error)
	Get(ctx context.Context, id int64) (*models.AssignmentDetail, error)
	Create(ctx context.Context, req service.AssignmentRequest) (*models.Assignment, error)
	Update(ctx context.Context, id int64, req service.AssignmentRequest) (*models.Assignment, error)
	Delete(ctx context.Context, id int64) error
}

// AssignmentHandler exposes coursework endpoints.
type AssignmentHandler struct {
	assignments assignmentService
}

// NewAssignmentHandler constructs AssignmentHandler.
func NewAssignmentHandler(assignments assignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

// List godoc
// @Summary List assignments
// @Tags Assignments
// @Produce json
// @Param upcoming query bool false "Only assignments due soon"
// @Param days query int false "Upcoming window in days (default 7)"
// @Param classId query int false "Filter by class"
// @Success 200 {array} models.AssignmentDetail
// @Router /assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	days, err := queryDays(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	classID, err := queryID(c, "classId")
	if err != nil {
		response.Error(c, err)
		return
	}
	assignments, err := h.assignments.List(c.Request.Context(), service.AssignmentQuery{
		Upcoming: queryBool(c, "upcoming"),
		Days:     days,
		ClassID:  classID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments)
}

// Get godoc
// @Summary Get assignment
// @Tags Assignments
// @Produce json
// @Param id path int true "Assignment ID"
// @Success 200 {object} models.AssignmentDetail
// @Router /assignments/{id} [get]
func (h *AssignmentHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	assignment, err := h.assignments.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment)
}

// Create godoc
// @Summary Create assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body service.AssignmentRequest true "Assignment payload"
// @Success 200 {object} response.MutationResult
// @Router /assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req service.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	assignment, err := h.assignments.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &assignment.ID)
}

// Update godoc
// @Summary Replace assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path int true "Assignment ID"
// @Param payload body service.AssignmentRequest true "Assignment payload"
// @Success 200 {object} response.MutationResult
// @Router /assignments/{id} [put]
func (h *AssignmentHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	assignment, err := h.assignments.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &assignment.ID)
}

// Delete godoc
// @Summary Delete assignment
// @Tags Assignments
// @Produce json
// @Param id path int true "Assignment ID"
// @Success 200 {object} response.MutationResult
// @Failure 409 {object} response.ErrorBody
// @Router /assignments/{id} [delete]
func (h *AssignmentHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.assignments.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
