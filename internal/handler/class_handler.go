package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cadet-admin-api/internal/dto"
	"github.com/noah-isme/cadet-admin-api/internal/models"
	"github.com/noah-isme/cadet-admin-api/internal/service"
	"github.com/noah-isme/cadet-admin-api/pkg/response"
)

type classService interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.Class, error)
	Get(ctx context.Context, id int64) (*models.ClassDetail, error)
	Create(ctx context.Context, req service.ClassRequest) (*models.Class, error)
	Update(ctx context.Context, id int64, req service.ClassRequest) (*models.Class, error)
	Delete(ctx context.Context, id int64) error
	Students(ctx context.Context, id int64, date *time.Time) (*dto.ClassStudentsResponse, error)
}

// ClassHandler exposes class endpoints.
type ClassHandler struct {
	classes classService
}

// NewClassHandler constructs ClassHandler.
func NewClassHandler(classes classService) *ClassHandler {
	return &ClassHandler{classes: classes}
}

// List godoc
// @Summary List classes
// @Tags Classes
// @Produce json
// @Param search query string false "Search by title, instructor or room"
// @Success 200 {array} models.Class
// @Router /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	classes, err := h.classes.List(c.Request.Context(), models.ClassFilter{Search: strings.TrimSpace(c.Query("search"))})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes)
}

// Get godoc
// @Summary Get class with schedule
// @Tags Classes
// @Produce json
// @Param id path int true "Class ID"
// @Success 200 {object} models.ClassDetail
// @Failure 404 {object} response.ErrorBody
// @Router /classes/{id} [get]
func (h *ClassHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	class, err := h.classes.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, class)
}

// Create godoc
// @Summary Create class
// @Tags Classes
// @Accept json
// @Produce json
// @Param payload body service.ClassRequest true "Class payload"
// @Success 200 {object} response.MutationResult
// @Failure 400 {object} response.ErrorBody
// @Router /classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	var req service.ClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	class, err := h.classes.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &class.ID)
}

// Update godoc
// @Summary Replace class
// @Tags Classes
// @Accept json
// @Produce json
// @Param id path int true "Class ID"
// @Param payload body service.ClassRequest true "Class payload"
// @Success 200 {object} response.MutationResult
// @Router /classes/{id} [put]
func (h *ClassHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.ClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	class, err := h.classes.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &class.ID)
}

// Delete godoc
// @Summary Delete class and its schedule
// @Tags Classes
// @Produce json
// @Param id path int true "Class ID"
// @Success 200 {object} response.MutationResult
// @Failure 409 {object} response.ErrorBody
// @Router /classes/{id} [delete]
func (h *ClassHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.classes.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Students godoc
// @Summary Students marked in a class session
// @Tags Classes
// @Produce json
// @Param id path int true "Class ID"
// @Param date query string false "Session date YYYY-MM-DD (default today)"
// @Success 200 {object} dto.ClassStudentsResponse
// @Router /classes/{id}/students [get]
func (h *ClassHandler) Students(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	date, err := queryDate(c, "date")
	if err != nil {
		response.Error(c, err)
		return
	}
	roster, err := h.classes.Students(c.Request.Context(), id, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster)
}
