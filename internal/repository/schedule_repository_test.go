package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cadet-admin-api/internal/models"
)

func TestScheduleRepositoryCreateRejectsOverlap(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext('class_schedule'), $1)")).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM class_schedule").
		WithArgs(1, "10:00:00", "09:00:00", int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	slot := &models.ClassSchedule{ClassID: 2, DayOfWeek: 1, StartTime: "09:00:00", EndTime: "10:00:00"}
	err := repo.Create(context.Background(), slot)
	assert.ErrorIs(t, err, ErrScheduleOverlap)
	assert.Zero(t, slot.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryCreateInsertsFreeSlot(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM class_schedule").
		WithArgs(1, "11:00:00", "10:00:00", int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO class_schedule (class_id, day_of_week, start_time, end_time)")).
		WithArgs(int64(2), 1, "10:00:00", "11:00:00").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectCommit()

	slot := &models.ClassSchedule{ClassID: 2, DayOfWeek: 1, StartTime: "10:00:00", EndTime: "11:00:00"}
	require.NoError(t, repo.Create(context.Background(), slot))
	assert.Equal(t, int64(9), slot.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryUpdateExcludesItself(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM class_schedule").
		WithArgs(3, "12:00:00", "11:00:00", int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE class_schedule SET class_id = $1")).
		WithArgs(int64(2), 3, "11:00:00", "12:00:00", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	slot := &models.ClassSchedule{ID: 7, ClassID: 2, DayOfWeek: 3, StartTime: "11:00:00", EndTime: "12:00:00"}
	require.NoError(t, repo.Update(context.Background(), slot))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListByDay(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND cs.day_of_week = $1 ORDER BY cs.start_time, cs.id")).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "class_id", "day_of_week", "start_time", "end_time", "title", "room", "instructor"}).
			AddRow(1, 4, 2, "08:00:00", "09:30:00", "Navigation", "B1", nil))

	slots, err := repo.List(context.Background(), models.ScheduleFilter{DayOfWeek: 2})
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "Navigation", slots[0].Title)
	assert.Equal(t, "09:30:00", slots[0].EndTime)
}
