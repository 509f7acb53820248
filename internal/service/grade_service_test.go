package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gradeFixture struct {
	store        *fakeStore
	repo         *fakeGradeRepo
	svc          *GradeService
	studentID    int64
	assignmentID int64
}

func newGradeFixture(t *testing.T) gradeFixture {
	t.Helper()
	store := newFakeStore()
	ctx := context.Background()
	student, err := newStudentServiceForTest(store).Create(ctx, StudentRequest{Name: "Cadet A"})
	require.NoError(t, err)
	class, err := newClassServiceForTest(store).Create(ctx, ClassRequest{Title: "Aviation 101"})
	require.NoError(t, err)
	assignment, err := NewAssignmentService(fakeAssignmentRepo{store}, nil, nil).Create(ctx, AssignmentRequest{Title: "Quiz", ClassID: class.ID})
	require.NoError(t, err)

	repo := &fakeGradeRepo{fakeStore: store}
	svc := NewGradeService(repo, fakeStudentRepo{store}, fakeAssignmentRepo{store}, nil, nil, nil)
	svc.now = fixedClock
	return gradeFixture{store: store, repo: repo, svc: svc, studentID: student.ID, assignmentID: assignment.ID}
}

func TestGradeServiceSaveReportsUpdate(t *testing.T) {
	f := newGradeFixture(t)
	ctx := context.Background()

	first, updated, err := f.svc.Save(ctx, GradeRequest{StudentID: f.studentID, AssignmentID: f.assignmentID, Grade: "B", Percentage: floatPtr(84)})
	require.NoError(t, err)
	assert.False(t, updated)

	second, updated, err := f.svc.Save(ctx, GradeRequest{StudentID: f.studentID, AssignmentID: f.assignmentID, Grade: "A", Percentage: floatPtr(93), Feedback: strPtr("Much better")})
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.store.grades, 1)
}

func TestGradeServiceSaveValidation(t *testing.T) {
	f := newGradeFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.Save(ctx, GradeRequest{StudentID: f.studentID, AssignmentID: f.assignmentID, Grade: "A"})
	assertStatus(t, err, http.StatusBadRequest, "percentage is required")

	_, _, err = f.svc.Save(ctx, GradeRequest{StudentID: f.studentID, AssignmentID: f.assignmentID, Grade: "A", Percentage: floatPtr(101)})
	assertStatus(t, err, http.StatusBadRequest, "percentage must be at most 100")

	_, _, err = f.svc.Save(ctx, GradeRequest{StudentID: f.studentID + 50, AssignmentID: f.assignmentID, Grade: "A", Percentage: floatPtr(90)})
	assertStatus(t, err, http.StatusNotFound, "student not found")

	_, _, err = f.svc.Save(ctx, GradeRequest{StudentID: f.studentID, AssignmentID: f.assignmentID + 50, Grade: "A", Percentage: floatPtr(90)})
	assertStatus(t, err, http.StatusNotFound, "assignment not found")

	zero, _, err := f.svc.Save(ctx, GradeRequest{StudentID: f.studentID, AssignmentID: f.assignmentID, Grade: "F", Percentage: floatPtr(0)})
	require.NoError(t, err)
	assert.Zero(t, zero.Percentage)
}

func TestGradeServiceListFilters(t *testing.T) {
	f := newGradeFixture(t)
	ctx := context.Background()

	_, err := f.svc.List(ctx, GradeQuery{})
	require.NoError(t, err)
	assert.Equal(t, unfilteredGradeLimit, f.repo.lastFilter.Limit)
	assert.Nil(t, f.repo.lastFilter.RecentSince)

	_, err = f.svc.List(ctx, GradeQuery{Recent: true})
	require.NoError(t, err)
	assert.Zero(t, f.repo.lastFilter.Limit)
	require.NotNil(t, f.repo.lastFilter.RecentSince)
	assert.Equal(t, "2023-12-27", f.repo.lastFilter.RecentSince.Format(DateLayout))

	_, err = f.svc.List(ctx, GradeQuery{StudentID: f.studentID})
	require.NoError(t, err)
	assert.Zero(t, f.repo.lastFilter.Limit)
	assert.Equal(t, f.studentID, f.repo.lastFilter.StudentID)
}

func TestGradeServiceUpdateAndDelete(t *testing.T) {
	f := newGradeFixture(t)
	ctx := context.Background()

	grade, _, err := f.svc.Save(ctx, GradeRequest{StudentID: f.studentID, AssignmentID: f.assignmentID, Grade: "C", Percentage: floatPtr(72)})
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, grade.ID, GradeUpdateRequest{Grade: "B", Percentage: floatPtr(81)})
	require.NoError(t, err)
	assert.Equal(t, f.studentID, updated.StudentID)
	assert.Equal(t, 81.0, updated.Percentage)

	_, err = f.svc.Update(ctx, grade.ID+10, GradeUpdateRequest{Grade: "B", Percentage: floatPtr(81)})
	assertStatus(t, err, http.StatusNotFound, "grade not found")

	require.NoError(t, f.svc.Delete(ctx, grade.ID))
	err = f.svc.Delete(ctx, grade.ID)
	assertStatus(t, err, http.StatusNotFound, "grade not found")
}
