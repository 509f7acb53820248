package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cadet-admin-api/internal/models"
)

func TestGradeRepositoryUpsertReportsUpdate(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	query := regexp.QuoteMeta("ON CONFLICT (student_id, assignment_id)")
	mock.ExpectQuery(query).
		WithArgs(int64(1), int64(2), "A", 95.0, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "updated"}).AddRow(7, false))
	mock.ExpectQuery(query).
		WithArgs(int64(1), int64(2), "B", 85.0, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "updated"}).AddRow(7, true))

	first := &models.Grade{StudentID: 1, AssignmentID: 2, Grade: "A", Percentage: 95}
	updated, err := repo.Upsert(context.Background(), first)
	require.NoError(t, err)
	assert.False(t, updated)
	assert.Equal(t, int64(7), first.ID)

	second := &models.Grade{StudentID: 1, AssignmentID: 2, Grade: "B", Percentage: 85}
	updated, err = repo.Upsert(context.Background(), second)
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, int64(7), second.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryListWithLimitAndRecent(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND a.class_id = $1 AND g.submitted_at >= $2 ORDER BY g.submitted_at DESC NULLS LAST, g.id DESC LIMIT 100")).
		WithArgs(int64(3), since).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "assignment_id", "grade", "percentage", "feedback", "submitted_at", "student_name", "assignment_title", "class_title"}).
			AddRow(1, 1, 2, "A", 91.5, nil, since, "Cadet A", "Essay", "Aviation 101"))

	grades, err := repo.List(context.Background(), models.GradeFilter{ClassID: 3, RecentSince: &since, Limit: 100})
	require.NoError(t, err)
	require.Len(t, grades, 1)
	assert.Equal(t, 91.5, grades[0].Percentage)
	assert.Equal(t, "Essay", grades[0].AssignmentTitle)
}

func TestGradeRepositorySummaryByStudent(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(AVG(percentage), 0) AS average_percentage")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"total_assignments", "average_percentage"}).AddRow(3, 84.666))

	summary, err := repo.SummaryByStudent(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalAssignments)
	assert.InDelta(t, 84.666, summary.AveragePercentage, 0.0001)
}
