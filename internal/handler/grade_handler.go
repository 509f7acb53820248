package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cadet-admin-api/internal/models"
	"github.com/noah-isme/cadet-admin-api/internal/service"
	"github.com/noah-isme/cadet-admin-api/pkg/response"
)

type gradeService interface {
	List(ctx context.Context, q service.GradeQuery) ([]models.GradeDetail, error)
	Get(ctx context.Context, id int64) (*models.GradeDetail, error)
	Save(ctx context.Context, req service.GradeRequest) (*models.Grade, bool, error)
	Update(ctx context.Context, id int64, req service.GradeUpdateRequest) (*models.Grade, error)
	Delete(ctx context.Context, id int64) error
}

// GradeHandler exposes grading endpoints.
type GradeHandler struct {
	grades gradeService
}

// NewGradeHandler constructs GradeHandler.
func NewGradeHandler(grades gradeService) *GradeHandler {
	return &GradeHandler{grades: grades}
}

// List godoc
// @Summary List grades
// @Tags Grades
// @Produce json
// @Param studentId query int false "Filter by student"
// @Param assignmentId query int false "Filter by assignment"
// @Param classId query int false "Filter by class"
// @Param recent query bool false "Only recently submitted grades"
// @Param days query int false "Recent window in days (default 14)"
// @Success 200 {array} models.GradeDetail
// @Router /grades [get]
func (h *GradeHandler) List(c *gin.Context) {
	var q service.GradeQuery
	var err error
	if q.StudentID, err = queryID(c, "studentId"); err != nil {
		response.Error(c, err)
		return
	}
	if q.AssignmentID, err = queryID(c, "assignmentId"); err != nil {
		response.Error(c, err)
		return
	}
	if q.ClassID, err = queryID(c, "classId"); err != nil {
		response.Error(c, err)
		return
	}
	if q.Days, err = queryDays(c); err != nil {
		response.Error(c, err)
		return
	}
	q.Recent = queryBool(c, "recent")

	grades, err := h.grades.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades)
}

// Get godoc
// @Summary Get grade
// @Tags Grades
// @Produce json
// @Param id path int true "Grade ID"
// @Success 200 {object} models.GradeDetail
// @Router /grades/{id} [get]
func (h *GradeHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	grade, err := h.grades.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grade)
}

// Save godoc
// @Summary Record grade
// @Description Overwrites the grade of the same student and assignment; updated reports whether it existed.
// @Tags Grades
// @Accept json
// @Produce json
// @Param payload body service.GradeRequest true "Grade payload"
// @Success 200 {object} response.MutationResult
// @Router /grades [post]
func (h *GradeHandler) Save(c *gin.Context) {
	var req service.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	grade, updated, err := h.grades.Save(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Upserted(c, grade.ID, updated)
}

// Update godoc
// @Summary Replace grade mark
// @Tags Grades
// @Accept json
// @Produce json
// @Param id path int true "Grade ID"
// @Param payload body service.GradeUpdateRequest true "Grade payload"
// @Success 200 {object} response.MutationResult
// @Router /grades/{id} [put]
func (h *GradeHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.GradeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	grade, err := h.grades.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &grade.ID)
}

// Delete godoc
// @Summary Delete grade
// @Tags Grades
// @Produce json
// @Param id path int true "Grade ID"
// @Success 200 {object} response.MutationResult
// @Router /grades/{id} [delete]
func (h *GradeHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.grades.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
