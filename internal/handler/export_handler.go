package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cadet-admin-api/internal/service"
	"github.com/noah-isme/cadet-admin-api/pkg/response"
)

type exportService interface {
	Export(ctx context.Context, resource, format string) (*service.ExportFile, error)
}

// ExportHandler serves table downloads.
type ExportHandler struct {
	exports exportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports exportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Download godoc
// @Summary Download a table snapshot
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param resource path string true "students, classes, attendance, grades or assignments"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /exports/{resource} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	file, err := h.exports.Export(c.Request.Context(), c.Param("resource"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
