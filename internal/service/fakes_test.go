package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/noah-isme/cadet-admin-api/internal/models"
	"github.com/noah-isme/cadet-admin-api/internal/repository"
)

var fixedNow = time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC) // a Wednesday

func fixedClock() time.Time { return fixedNow }

func strPtr(v string) *string { return &v }

func floatPtr(v float64) *float64 { return &v }

// fakeStore is an in-memory stand-in for the tables the services touch.
type fakeStore struct {
	mu          sync.Mutex
	nextID      int64
	students    map[int64]models.Student
	classes     map[int64]models.Class
	slots       map[int64]models.ClassSchedule
	attendance  map[[3]string]models.Attendance
	assignments map[int64]models.Assignment
	grades      map[[2]int64]models.Grade
	inserts     int
	err         error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		students:    map[int64]models.Student{},
		classes:     map[int64]models.Class{},
		slots:       map[int64]models.ClassSchedule{},
		attendance:  map[[3]string]models.Attendance{},
		assignments: map[int64]models.Assignment{},
		grades:      map[[2]int64]models.Grade{},
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func attendanceKey(studentID, classID int64, date time.Time) [3]string {
	return [3]string{fmt.Sprint(studentID), fmt.Sprint(classID), date.Format(DateLayout)}
}

// students

type fakeStudentRepo struct{ *fakeStore }

func (r fakeStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]models.Student, 0, len(r.students))
	for _, s := range r.students {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r fakeStudentRepo) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (r fakeStudentRepo) Create(ctx context.Context, student *models.Student) error {
	student.ID = r.id()
	r.students[student.ID] = *student
	r.inserts++
	return nil
}

func (r fakeStudentRepo) Update(ctx context.Context, student *models.Student) error {
	r.students[student.ID] = *student
	return nil
}

func (r fakeStudentRepo) Delete(ctx context.Context, id int64) error {
	for key := range r.attendance {
		if r.attendance[key].StudentID == id {
			return &pq.Error{Code: "23503"}
		}
	}
	delete(r.students, id)
	return nil
}

// classes

type fakeClassRepo struct{ *fakeStore }

func (r fakeClassRepo) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, error) {
	out := make([]models.Class, 0, len(r.classes))
	for _, c := range r.classes {
		out = append(out, c)
	}
	return out, nil
}

func (r fakeClassRepo) FindByID(ctx context.Context, id int64) (*models.Class, error) {
	c, ok := r.classes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (r fakeClassRepo) EnrolledCount(ctx context.Context, id int64) (int, error) {
	seen := map[int64]bool{}
	for _, a := range r.attendance {
		if a.ClassID == id {
			seen[a.StudentID] = true
		}
	}
	return len(seen), nil
}

func (r fakeClassRepo) Create(ctx context.Context, class *models.Class) error {
	class.ID = r.id()
	r.classes[class.ID] = *class
	r.inserts++
	return nil
}

func (r fakeClassRepo) Update(ctx context.Context, class *models.Class) error {
	r.classes[class.ID] = *class
	return nil
}

func (r fakeClassRepo) Delete(ctx context.Context, id int64) error {
	for _, a := range r.attendance {
		if a.ClassID == id {
			return &pq.Error{Code: "23503"}
		}
	}
	for slotID, slot := range r.slots {
		if slot.ClassID == id {
			delete(r.slots, slotID)
		}
	}
	delete(r.classes, id)
	return nil
}

// schedule

type fakeScheduleRepo struct{ *fakeStore }

func (r fakeScheduleRepo) detail(slot models.ClassSchedule) models.ClassScheduleDetail {
	class := r.classes[slot.ClassID]
	return models.ClassScheduleDetail{ClassSchedule: slot, Title: class.Title, Room: class.Room, Instructor: class.Instructor}
}

func (r fakeScheduleRepo) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ClassScheduleDetail, error) {
	out := make([]models.ClassScheduleDetail, 0)
	for _, slot := range r.slots {
		if filter.DayOfWeek > 0 && slot.DayOfWeek != filter.DayOfWeek {
			continue
		}
		if filter.ClassID > 0 && slot.ClassID != filter.ClassID {
			continue
		}
		out = append(out, r.detail(slot))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime == out[j].StartTime {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (r fakeScheduleRepo) ListByClass(ctx context.Context, classID int64) ([]models.ClassSchedule, error) {
	out := make([]models.ClassSchedule, 0)
	for _, slot := range r.slots {
		if slot.ClassID == classID {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (r fakeScheduleRepo) FindByID(ctx context.Context, id int64) (*models.ClassScheduleDetail, error) {
	slot, ok := r.slots[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	d := r.detail(slot)
	return &d, nil
}

func (r fakeScheduleRepo) overlaps(slot *models.ClassSchedule) bool {
	for _, other := range r.slots {
		if other.ID == slot.ID || other.DayOfWeek != slot.DayOfWeek {
			continue
		}
		if other.StartTime < slot.EndTime && other.EndTime > slot.StartTime {
			return true
		}
	}
	return false
}

func (r fakeScheduleRepo) Create(ctx context.Context, slot *models.ClassSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.overlaps(slot) {
		return repository.ErrScheduleOverlap
	}
	if _, ok := r.classes[slot.ClassID]; !ok {
		return &pq.Error{Code: "23503"}
	}
	slot.ID = r.id()
	r.slots[slot.ID] = *slot
	r.inserts++
	return nil
}

func (r fakeScheduleRepo) Update(ctx context.Context, slot *models.ClassSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.overlaps(slot) {
		return repository.ErrScheduleOverlap
	}
	r.slots[slot.ID] = *slot
	return nil
}

func (r fakeScheduleRepo) Delete(ctx context.Context, id int64) error {
	delete(r.slots, id)
	return nil
}

// attendance

type fakeAttendanceRepo struct{ *fakeStore }

func (r fakeAttendanceRepo) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error) {
	out := make([]models.AttendanceRecord, 0)
	for _, a := range r.attendance {
		if !a.Date.Equal(filter.Date) {
			continue
		}
		if filter.ClassID > 0 && a.ClassID != filter.ClassID {
			continue
		}
		out = append(out, models.AttendanceRecord{
			Attendance: a,
			Name:       r.students[a.StudentID].Name,
			ClassTitle: r.classes[a.ClassID].Title,
		})
	}
	return out, nil
}

func (r fakeAttendanceRepo) Record(ctx context.Context, attendance *models.Attendance) error {
	if _, ok := r.students[attendance.StudentID]; !ok {
		return &pq.Error{Code: "23503"}
	}
	if _, ok := r.classes[attendance.ClassID]; !ok {
		return &pq.Error{Code: "23503"}
	}
	key := attendanceKey(attendance.StudentID, attendance.ClassID, attendance.Date)
	if existing, ok := r.attendance[key]; ok {
		attendance.ID = existing.ID
	} else {
		attendance.ID = r.id()
		r.inserts++
	}
	r.attendance[key] = *attendance
	return nil
}

func (r fakeAttendanceRepo) ListRecentAbsences(ctx context.Context, since time.Time, limit int) ([]models.AttendanceRecord, error) {
	out := make([]models.AttendanceRecord, 0)
	for _, a := range r.attendance {
		if a.Status != models.AttendanceStatusPresent && !a.Date.Before(since) {
			out = append(out, models.AttendanceRecord{Attendance: a})
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r fakeAttendanceRepo) CountsByClassOn(ctx context.Context, date time.Time) (map[int64]models.AttendanceCount, error) {
	counts := map[int64]models.AttendanceCount{}
	for _, a := range r.attendance {
		if !a.Date.Equal(date) {
			continue
		}
		c := counts[a.ClassID]
		c.Total++
		if a.Status == models.AttendanceStatusPresent {
			c.Present++
		}
		counts[a.ClassID] = c
	}
	return counts, nil
}

func (r fakeAttendanceRepo) ListByStudent(ctx context.Context, studentID int64, limit int) ([]models.StudentAttendanceRecord, error) {
	out := make([]models.StudentAttendanceRecord, 0)
	for _, a := range r.attendance {
		if a.StudentID == studentID {
			out = append(out, models.StudentAttendanceRecord{Attendance: a, ClassTitle: r.classes[a.ClassID].Title})
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r fakeAttendanceRepo) BreakdownByStudent(ctx context.Context, studentID int64) (models.AttendanceBreakdown, error) {
	var b models.AttendanceBreakdown
	for _, a := range r.attendance {
		if a.StudentID != studentID {
			continue
		}
		b.Total++
		switch a.Status {
		case models.AttendanceStatusPresent:
			b.Present++
		case models.AttendanceStatusAbsent:
			b.Absent++
		}
	}
	return b, nil
}

func (r fakeAttendanceRepo) ListByClassSession(ctx context.Context, classID int64, date time.Time) ([]models.ClassStudent, error) {
	out := make([]models.ClassStudent, 0)
	for _, a := range r.attendance {
		if a.ClassID == classID && a.Date.Equal(date) {
			out = append(out, models.ClassStudent{Student: r.students[a.StudentID], Status: a.Status, Notes: a.Notes})
		}
	}
	return out, nil
}

func (r fakeAttendanceRepo) BreakdownByClassSession(ctx context.Context, classID int64, date time.Time) (models.AttendanceBreakdown, error) {
	var b models.AttendanceBreakdown
	for _, a := range r.attendance {
		if a.ClassID != classID || !a.Date.Equal(date) {
			continue
		}
		b.Total++
		if a.Status == models.AttendanceStatusPresent {
			b.Present++
		}
	}
	return b, nil
}

// assignments

type fakeAssignmentRepo struct{ *fakeStore }

func (r fakeAssignmentRepo) detail(a models.Assignment) models.AssignmentDetail {
	graded := 0
	for _, g := range r.grades {
		if g.AssignmentID == a.ID {
			graded++
		}
	}
	return models.AssignmentDetail{Assignment: a, ClassTitle: r.classes[a.ClassID].Title, GradedCount: graded}
}

func (r fakeAssignmentRepo) List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, error) {
	out := make([]models.AssignmentDetail, 0)
	for _, a := range r.assignments {
		if filter.Upcoming && (a.DueDate == nil || a.DueDate.Before(filter.From) || a.DueDate.After(filter.To)) {
			continue
		}
		out = append(out, r.detail(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fakeAssignmentRepo) FindByID(ctx context.Context, id int64) (*models.AssignmentDetail, error) {
	a, ok := r.assignments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	d := r.detail(a)
	return &d, nil
}

func (r fakeAssignmentRepo) Create(ctx context.Context, assignment *models.Assignment) error {
	if _, ok := r.classes[assignment.ClassID]; !ok {
		return &pq.Error{Code: "23503"}
	}
	assignment.ID = r.id()
	r.assignments[assignment.ID] = *assignment
	r.inserts++
	return nil
}

func (r fakeAssignmentRepo) Update(ctx context.Context, assignment *models.Assignment) error {
	r.assignments[assignment.ID] = *assignment
	return nil
}

func (r fakeAssignmentRepo) Delete(ctx context.Context, id int64) error {
	for _, g := range r.grades {
		if g.AssignmentID == id {
			return &pq.Error{Code: "23503"}
		}
	}
	delete(r.assignments, id)
	return nil
}

// grades

type fakeGradeRepo struct {
	*fakeStore
	lastFilter models.GradeFilter
}

func (r *fakeGradeRepo) List(ctx context.Context, filter models.GradeFilter) ([]models.GradeDetail, error) {
	r.lastFilter = filter
	out := make([]models.GradeDetail, 0)
	for _, g := range r.grades {
		out = append(out, models.GradeDetail{Grade: g})
	}
	return out, nil
}

func (r *fakeGradeRepo) FindByID(ctx context.Context, id int64) (*models.GradeDetail, error) {
	for _, g := range r.grades {
		if g.ID == id {
			return &models.GradeDetail{Grade: g}, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *fakeGradeRepo) Upsert(ctx context.Context, grade *models.Grade) (bool, error) {
	key := [2]int64{grade.StudentID, grade.AssignmentID}
	existing, ok := r.grades[key]
	if ok {
		grade.ID = existing.ID
	} else {
		grade.ID = r.id()
		r.inserts++
	}
	r.grades[key] = *grade
	return ok, nil
}

func (r *fakeGradeRepo) Update(ctx context.Context, grade *models.Grade) error {
	r.grades[[2]int64{grade.StudentID, grade.AssignmentID}] = *grade
	return nil
}

func (r *fakeGradeRepo) ListByStudent(ctx context.Context, studentID int64, limit int) ([]models.StudentGrade, error) {
	out := make([]models.StudentGrade, 0)
	for _, g := range r.grades {
		if g.StudentID == studentID {
			out = append(out, models.StudentGrade{Grade: g})
		}
	}
	return out, nil
}

func (r *fakeGradeRepo) SummaryByStudent(ctx context.Context, studentID int64) (models.GradeSummary, error) {
	var summary models.GradeSummary
	var sum float64
	for _, g := range r.grades {
		if g.StudentID == studentID {
			summary.TotalAssignments++
			sum += g.Percentage
		}
	}
	if summary.TotalAssignments > 0 {
		summary.AveragePercentage = sum / float64(summary.TotalAssignments)
	}
	return summary, nil
}

func (r *fakeGradeRepo) Delete(ctx context.Context, id int64) error {
	for key, g := range r.grades {
		if g.ID == id {
			delete(r.grades, key)
		}
	}
	return nil
}
