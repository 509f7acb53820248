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

func TestStatsRepositoryCountAttendanceHalfOpenWindow(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStatsRepository(db)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM attendance WHERE date >= $1 AND date < $2")).
		WithArgs("2024-01-01", "2024-01-31").
		WillReturnRows(sqlmock.NewRows([]string{"present_count", "total_count"}).AddRow(10, 20))

	count, err := repo.CountAttendance(context.Background(), from, until)
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceCount{Present: 10, Total: 20}, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsRepositoryTopStudentsByAttendanceTieBreak(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStatsRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN attendance a ON a.student_id = s.id\n        GROUP BY s.id, s.name, s.rank\n        ORDER BY present_count DESC, s.id\n        LIMIT $1")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "rank", "present_count", "total_count"}).
			AddRow(2, "Cadet B", "Corporal", 50, 51).
			AddRow(1, "Cadet A", nil, 1, 1).
			AddRow(3, "Cadet C", nil, 0, 0))

	ranks, err := repo.TopStudentsByAttendance(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, ranks, 3)
	assert.Equal(t, int64(2), ranks[0].ID)
	assert.Equal(t, "Corporal", *ranks[0].Rank)
	assert.Equal(t, 50, ranks[0].PresentCount)
	assert.Equal(t, int64(3), ranks[2].ID)
	assert.Equal(t, 0, ranks[2].TotalCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsRepositoryDistributions(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStatsRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE squadron IS NOT NULL GROUP BY squadron")).
		WillReturnRows(sqlmock.NewRows([]string{"squadron", "count"}).AddRow("Alpha", 3))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE year IS NOT NULL GROUP BY year ORDER BY year")).
		WillReturnRows(sqlmock.NewRows([]string{"year", "count"}).AddRow(1, 2).AddRow(2, 1))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE instructor IS NOT NULL GROUP BY instructor")).
		WillReturnRows(sqlmock.NewRows([]string{"instructor", "count"}))

	squadrons, err := repo.SquadronDistribution(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.SquadronCount{{Squadron: "Alpha", Count: 3}}, squadrons)

	years, err := repo.YearDistribution(context.Background())
	require.NoError(t, err)
	assert.Len(t, years, 2)

	instructors, err := repo.InstructorDistribution(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, instructors)
	assert.Empty(t, instructors)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsRepositoryPercentageCounts(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStatsRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT percentage, COUNT(*) AS count FROM grades GROUP BY percentage")).
		WillReturnRows(sqlmock.NewRows([]string{"percentage", "count"}).AddRow(90.0, 2).AddRow(59.9, 1))

	counts, err := repo.PercentageCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.PercentageCount{{Percentage: 90, Count: 2}, {Percentage: 59.9, Count: 1}}, counts)
}
