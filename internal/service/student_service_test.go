package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/cadet-admin-api/internal/models"
)

func newStudentServiceForTest(store *fakeStore) *StudentService {
	return NewStudentService(fakeStudentRepo{store}, fakeAttendanceRepo{store}, &fakeGradeRepo{fakeStore: store}, nil, nil, zap.NewNop())
}

func TestStudentServiceCreate(t *testing.T) {
	store := newFakeStore()
	svc := newStudentServiceForTest(store)

	student, err := svc.Create(context.Background(), StudentRequest{Name: "  Cadet A ", Squadron: strPtr(" "), Email: strPtr("a@academy.test")})
	require.NoError(t, err)
	assert.NotZero(t, student.ID)
	assert.Equal(t, "Cadet A", student.Name)
	assert.Nil(t, student.Squadron)
	assert.Equal(t, 1, store.inserts)
}

func TestStudentServiceCreateValidation(t *testing.T) {
	store := newFakeStore()
	svc := newStudentServiceForTest(store)

	_, err := svc.Create(context.Background(), StudentRequest{Name: "   "})
	assertStatus(t, err, http.StatusBadRequest, "name is required")

	_, err = svc.Create(context.Background(), StudentRequest{Name: "Cadet B", Email: strPtr("nope")})
	assertStatus(t, err, http.StatusBadRequest, "email must be a valid email")
	assert.Zero(t, store.inserts)
}

func TestStudentServiceUpdateMissing(t *testing.T) {
	svc := newStudentServiceForTest(newFakeStore())

	_, err := svc.Update(context.Background(), 42, StudentRequest{Name: "Ghost"})
	assertStatus(t, err, http.StatusNotFound, "student not found")
}

func TestStudentServiceDelete(t *testing.T) {
	store := newFakeStore()
	svc := newStudentServiceForTest(store)
	ctx := context.Background()

	err := svc.Delete(ctx, 99)
	assertStatus(t, err, http.StatusNotFound, "student not found")

	student, err := svc.Create(ctx, StudentRequest{Name: "Cadet C"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, student.ID))
	assert.Empty(t, store.students)
}

func TestStudentServiceDeleteWithAttendance(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()
	svc := newStudentServiceForTest(store)
	classes := NewClassService(fakeClassRepo{store}, fakeScheduleRepo{store}, fakeAttendanceRepo{store}, nil, nil, nil)
	attendance := NewAttendanceService(fakeAttendanceRepo{store}, nil, nil, nil)

	student, err := svc.Create(ctx, StudentRequest{Name: "Cadet D"})
	require.NoError(t, err)
	class, err := classes.Create(ctx, ClassRequest{Title: "Navigation"})
	require.NoError(t, err)
	_, err = attendance.Record(ctx, AttendanceRequest{StudentID: student.ID, ClassID: class.ID, Date: "2024-01-08", Status: "absent"})
	require.NoError(t, err)

	err = svc.Delete(ctx, student.ID)
	assertStatus(t, err, http.StatusConflict, "student has dependent records")
	assert.Len(t, store.students, 1)
}

func TestStudentServiceListError(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("connection reset")
	svc := newStudentServiceForTest(store)

	_, err := svc.List(context.Background(), models.StudentFilter{})
	assertStatus(t, err, http.StatusInternalServerError, "failed to fetch students")
}

func TestStudentServiceHistory(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()
	svc := newStudentServiceForTest(store)
	classes := NewClassService(fakeClassRepo{store}, fakeScheduleRepo{store}, fakeAttendanceRepo{store}, nil, nil, nil)
	attendance := NewAttendanceService(fakeAttendanceRepo{store}, nil, nil, nil)
	grades := &fakeGradeRepo{fakeStore: store}

	student, err := svc.Create(ctx, StudentRequest{Name: "Cadet E"})
	require.NoError(t, err)
	class, err := classes.Create(ctx, ClassRequest{Title: "Meteorology"})
	require.NoError(t, err)
	for date, status := range map[string]string{"2024-01-08": "present", "2024-01-09": "present", "2024-01-10": "absent"} {
		_, err := attendance.Record(ctx, AttendanceRequest{StudentID: student.ID, ClassID: class.ID, Date: date, Status: status})
		require.NoError(t, err)
	}
	_, err = grades.Upsert(ctx, &models.Grade{StudentID: student.ID, AssignmentID: 1, Grade: "B", Percentage: 88})
	require.NoError(t, err)
	_, err = grades.Upsert(ctx, &models.Grade{StudentID: student.ID, AssignmentID: 2, Grade: "C", Percentage: 71})
	require.NoError(t, err)

	history, err := svc.Attendance(ctx, student.ID, 0)
	require.NoError(t, err)
	assert.Len(t, history.Records, 3)
	assert.Equal(t, 3, history.Stats.Total)
	assert.Equal(t, 2, history.Stats.Present)
	assert.Equal(t, 67, history.Stats.AttendanceRate)

	gradeHistory, err := svc.Grades(ctx, student.ID, 0)
	require.NoError(t, err)
	assert.Len(t, gradeHistory.Grades, 2)
	assert.Equal(t, 2, gradeHistory.Stats.TotalAssignments)
	assert.Equal(t, 80, gradeHistory.Stats.AveragePercentage)

	_, err = svc.Attendance(ctx, 404, 0)
	assertStatus(t, err, http.StatusNotFound, "student not found")
}

func TestHistoryLimit(t *testing.T) {
	assert.Equal(t, 10, historyLimit(0))
	assert.Equal(t, 25, historyLimit(25))
	assert.Equal(t, 100, historyLimit(1000))
}
