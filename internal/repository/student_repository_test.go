package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cadet-admin-api/internal/models"
	appErrors "github.com/noah-isme/cadet-admin-api/pkg/errors"
)

func newStudentMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func strPtr(v string) *string { return &v }

func TestStudentRepositoryListAppliesFilters(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	year := 2
	rows := sqlmock.NewRows([]string{"id", "name", "rank", "squadron", "year", "email"}).
		AddRow(1, "Cadet A", "Sergeant", "Alpha", 2, nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT s.id, s.name, s.rank, s.squadron, s.year, s.email FROM students s WHERE 1=1 AND (LOWER(s.name) LIKE $1 ESCAPE '\\' OR LOWER(s.rank) LIKE $1 ESCAPE '\\' OR LOWER(s.email) LIKE $1 ESCAPE '\\') AND s.squadron = $2 AND s.year = $3 ORDER BY s.name, s.id")).
		WithArgs("%cadet%", "Alpha", 2).
		WillReturnRows(rows)

	students, err := repo.List(context.Background(), models.StudentFilter{Search: "Cadet", Squadron: "Alpha", Year: &year})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Cadet A", students[0].Name)
	assert.Nil(t, students[0].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListSearchMatchesWildcardsLiterally(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("FROM students s WHERE").
		WithArgs(`%\_%`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "rank", "squadron", "year", "email"}))

	students, err := repo.List(context.Background(), models.StudentFilter{Search: "_"})
	require.NoError(t, err)
	assert.Empty(t, students)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListEmptyIsNotNil(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("FROM students s WHERE 1=1 ORDER BY").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "rank", "squadron", "year", "email"}))

	students, err := repo.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)
}

func TestStudentRepositoryCreateReturnsID(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO students (name, rank, squadron, year, email)")).
		WithArgs("Cadet A", nil, "Alpha", nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	student := &models.Student{Name: "Cadet A", Squadron: strPtr("Alpha")}
	require.NoError(t, repo.Create(context.Background(), student))
	assert.Equal(t, int64(42), student.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryDeleteSurfacesForeignKeyViolation(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM students WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnError(&pq.Error{Code: "23503"})

	err := repo.Delete(context.Background(), 3)
	require.Error(t, err)
	assert.True(t, appErrors.IsForeignKeyViolation(err))
}
