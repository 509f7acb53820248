package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cadet-admin-api/pkg/database"
)

type stubExportRepo struct {
	limit int
	err   error
}

func (s *stubExportRepo) Supports(resource string) bool {
	return resource == "students"
}

func (s *stubExportRepo) Rows(ctx context.Context, resource string, limit int) ([]string, []database.Row, error) {
	s.limit = limit
	if s.err != nil {
		return nil, nil, s.err
	}
	return []string{"id", "name"}, []database.Row{{"id": int64(1), "name": "Cadet A"}}, nil
}

func newExportServiceForTest(repo *stubExportRepo) *ExportService {
	svc := NewExportService(repo, 250, nil, nil, nil)
	svc.now = fixedClock
	return svc
}

func TestExportServiceCSV(t *testing.T) {
	repo := &stubExportRepo{}
	svc := newExportServiceForTest(repo)

	file, err := svc.Export(context.Background(), "Students", "")
	require.NoError(t, err)
	assert.Equal(t, "students-20240110-093000.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Contains(t, string(file.Data), "Cadet A")
	assert.Equal(t, 250, repo.limit)
}

func TestExportServicePDF(t *testing.T) {
	svc := newExportServiceForTest(&stubExportRepo{})

	file, err := svc.Export(context.Background(), "students", "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
}

func TestExportServiceRejectsUnknownInput(t *testing.T) {
	repo := &stubExportRepo{}
	svc := newExportServiceForTest(repo)
	ctx := context.Background()

	_, err := svc.Export(ctx, "students", "xlsx")
	assertStatus(t, err, http.StatusBadRequest, "format must be csv or pdf")

	_, err = svc.Export(ctx, "passwords", "csv")
	assertStatus(t, err, http.StatusNotFound, `unknown export "passwords"`)

	repo.err = errors.New("statement timeout")
	_, err = svc.Export(ctx, "students", "csv")
	assertStatus(t, err, http.StatusInternalServerError, "failed to export students")
}

