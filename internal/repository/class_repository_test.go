package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cadet-admin-api/internal/models"
)

func TestClassRepositoryListSearch(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM classes c WHERE (LOWER(c.title) LIKE $1 ESCAPE '\' OR LOWER(c.instructor) LIKE $1 ESCAPE '\' OR LOWER(c.room) LIKE $1 ESCAPE '\') ORDER BY c.title, c.id`)).
		WithArgs("%hangar%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "instructor", "room"}).
			AddRow(1, "Aviation 101", nil, "Capt. Lee", "Hangar 2"))

	classes, err := repo.List(context.Background(), models.ClassFilter{Search: "Hangar"})
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "Hangar 2", *classes[0].Room)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryListSearchEscapesWildcards(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectQuery("FROM classes c WHERE").
		WithArgs(`%100\%\_a\\b%`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "instructor", "room"}))

	classes, err := repo.List(context.Background(), models.ClassFilter{Search: `100%_A\b`})
	require.NoError(t, err)
	assert.Empty(t, classes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryDeleteRemovesScheduleInTransaction(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM class_schedule WHERE class_id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM classes WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryDeleteRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM class_schedule").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM classes").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	require.Error(t, repo.Delete(context.Background(), 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}
