package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/cadet-admin-api/pkg/database"
	appErrors "github.com/noah-isme/cadet-admin-api/pkg/errors"
	"github.com/noah-isme/cadet-admin-api/pkg/export"
)

// Supported export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

const defaultExportRowLimit = 5000

type exportRepository interface {
	Supports(resource string) bool
	Rows(ctx context.Context, resource string, limit int) ([]string, []database.Row, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders table snapshots as CSV or PDF downloads.
type ExportService struct {
	repo     exportRepository
	csv      csvRenderer
	pdf      pdfRenderer
	rowLimit int
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the defaults.
func NewExportService(repo exportRepository, rowLimit int, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rowLimit <= 0 {
		rowLimit = defaultExportRowLimit
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{repo: repo, csv: csv, pdf: pdf, rowLimit: rowLimit, logger: logger, now: time.Now}
}

// Export renders resource in format.
func (s *ExportService) Export(ctx context.Context, resource, format string) (*ExportFile, error) {
	resource = strings.ToLower(strings.TrimSpace(resource))
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, badRequest("format must be csv or pdf")
	}
	if !s.repo.Supports(resource) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown export %q", resource))
	}

	columns, rows, err := s.repo.Rows(ctx, resource, s.rowLimit)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to export "+resource)
	}
	records := make([]map[string]interface{}, len(rows))
	for i, row := range rows {
		records[i] = row
	}
	dataset := export.NewDataset(columns, records)

	file := &ExportFile{Filename: fmt.Sprintf("%s-%s.%s", resource, s.now().Format("20060102-150405"), format)}
	switch format {
	case ExportFormatPDF:
		file.ContentType = "application/pdf"
		file.Data, err = s.pdf.Render(dataset, resource)
	default:
		file.ContentType = "text/csv"
		file.Data, err = s.csv.Render(dataset)
	}
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render "+resource+" export")
	}
	s.logger.Info("export rendered", zap.String("resource", resource), zap.String("format", format), zap.Int("rows", len(rows)))
	return file, nil
}
