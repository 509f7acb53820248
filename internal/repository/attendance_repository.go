package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/cadet-admin-api/internal/models"
)

const dateLayout = "2006-01-02"

const attendanceStatusCounts = `COUNT(*) FILTER (WHERE status = 'present') AS present_count,
        COUNT(*) FILTER (WHERE status = 'absent') AS absent_count,
        COUNT(*) FILTER (WHERE status = 'authorized_leave') AS authorized_count,
        COUNT(*) FILTER (WHERE status = 'medical') AS medical_count,
        COUNT(*) FILTER (WHERE status = 'unauthorized') AS unauthorized_count`

// AttendanceRepository persists per-class attendance marks.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// List returns the marks of one day, optionally restricted to a class.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error) {
	query := `SELECT a.id, a.student_id, a.class_id, a.date, a.status, a.notes, s.name, s.rank, c.title AS class_title
        FROM attendance a
        JOIN students s ON s.id = a.student_id
        JOIN classes c ON c.id = a.class_id
        WHERE a.date = $1`
	args := []interface{}{filter.Date.Format(dateLayout)}
	if filter.ClassID > 0 {
		query += " AND a.class_id = $2"
		args = append(args, filter.ClassID)
	}
	query += " ORDER BY s.name, a.id"

	records := make([]models.AttendanceRecord, 0)
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}

// Record stores the status of a student for a class session, replacing any
// earlier mark for the same (student, class, date).
func (r *AttendanceRepository) Record(ctx context.Context, attendance *models.Attendance) error {
	const query = `INSERT INTO attendance (student_id, class_id, date, status, notes)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (student_id, class_id, date)
DO UPDATE SET status = EXCLUDED.status, notes = EXCLUDED.notes
RETURNING id`
	err := r.db.QueryRowxContext(ctx, query,
		attendance.StudentID, attendance.ClassID, attendance.Date.Format(dateLayout), attendance.Status, attendance.Notes,
	).Scan(&attendance.ID)
	if err != nil {
		return fmt.Errorf("record attendance: %w", err)
	}
	return nil
}

// ListRecentAbsences returns the latest non-present marks dated on or after since.
func (r *AttendanceRepository) ListRecentAbsences(ctx context.Context, since time.Time, limit int) ([]models.AttendanceRecord, error) {
	const query = `SELECT a.id, a.student_id, a.class_id, a.date, a.status, a.notes, s.name, s.rank, c.title AS class_title
        FROM attendance a
        JOIN students s ON s.id = a.student_id
        JOIN classes c ON c.id = a.class_id
        WHERE a.status <> 'present' AND a.date >= $1
        ORDER BY a.date DESC, a.id DESC
        LIMIT $2`
	records := make([]models.AttendanceRecord, 0)
	if err := r.db.SelectContext(ctx, &records, query, since.Format(dateLayout), limit); err != nil {
		return nil, fmt.Errorf("list recent absences: %w", err)
	}
	return records, nil
}

// ListByStudent returns a student's most recent marks.
func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentID int64, limit int) ([]models.StudentAttendanceRecord, error) {
	const query = `SELECT a.id, a.student_id, a.class_id, a.date, a.status, a.notes, c.title AS class_title, c.instructor
        FROM attendance a
        JOIN classes c ON c.id = a.class_id
        WHERE a.student_id = $1
        ORDER BY a.date DESC, a.id DESC
        LIMIT $2`
	records := make([]models.StudentAttendanceRecord, 0)
	if err := r.db.SelectContext(ctx, &records, query, studentID, limit); err != nil {
		return nil, fmt.Errorf("list student attendance: %w", err)
	}
	return records, nil
}

// BreakdownByStudent counts every status across all of a student's marks.
func (r *AttendanceRepository) BreakdownByStudent(ctx context.Context, studentID int64) (models.AttendanceBreakdown, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) AS total,
        %s
        FROM attendance WHERE student_id = $1`, attendanceStatusCounts)
	var breakdown models.AttendanceBreakdown
	if err := r.db.GetContext(ctx, &breakdown, query, studentID); err != nil {
		return models.AttendanceBreakdown{}, fmt.Errorf("student attendance breakdown: %w", err)
	}
	return breakdown, nil
}

// ListByClassSession returns the students marked for a class on date, ordered by name.
func (r *AttendanceRepository) ListByClassSession(ctx context.Context, classID int64, date time.Time) ([]models.ClassStudent, error) {
	const query = `SELECT s.id, s.name, s.rank, s.squadron, s.year, s.email, a.status, a.notes
        FROM attendance a
        JOIN students s ON s.id = a.student_id
        WHERE a.class_id = $1 AND a.date = $2
        ORDER BY s.name, s.id`
	students := make([]models.ClassStudent, 0)
	if err := r.db.SelectContext(ctx, &students, query, classID, date.Format(dateLayout)); err != nil {
		return nil, fmt.Errorf("list class session students: %w", err)
	}
	return students, nil
}

// BreakdownByClassSession counts every status of a class on date. Total is the
// number of distinct students marked.
func (r *AttendanceRepository) BreakdownByClassSession(ctx context.Context, classID int64, date time.Time) (models.AttendanceBreakdown, error) {
	query := fmt.Sprintf(`SELECT COUNT(DISTINCT student_id) AS total,
        %s
        FROM attendance WHERE class_id = $1 AND date = $2`, attendanceStatusCounts)
	var breakdown models.AttendanceBreakdown
	if err := r.db.GetContext(ctx, &breakdown, query, classID, date.Format(dateLayout)); err != nil {
		return models.AttendanceBreakdown{}, fmt.Errorf("class session breakdown: %w", err)
	}
	return breakdown, nil
}

// CountsByClassOn returns present and total marks per class for date. Classes
// without marks are absent from the map.
func (r *AttendanceRepository) CountsByClassOn(ctx context.Context, date time.Time) (map[int64]models.AttendanceCount, error) {
	const query = `SELECT class_id, COUNT(*) FILTER (WHERE status = 'present') AS present_count, COUNT(*) AS total_count
        FROM attendance WHERE date = $1 GROUP BY class_id`
	var rows []struct {
		ClassID int64 `db:"class_id"`
		models.AttendanceCount
	}
	if err := r.db.SelectContext(ctx, &rows, query, date.Format(dateLayout)); err != nil {
		return nil, fmt.Errorf("count attendance by class: %w", err)
	}
	counts := make(map[int64]models.AttendanceCount, len(rows))
	for _, row := range rows {
		counts[row.ClassID] = row.AttendanceCount
	}
	return counts, nil
}
