package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/cadet-admin-api/internal/models"
)

const gradeDetailColumns = `g.id, g.student_id, g.assignment_id, g.grade, g.percentage, g.feedback, g.submitted_at,
        s.name AS student_name, a.title AS assignment_title, c.title AS class_title`

const gradeDetailJoins = `FROM grades g
        JOIN students s ON s.id = g.student_id
        JOIN assignments a ON a.id = g.assignment_id
        JOIN classes c ON c.id = a.class_id`

// GradeRepository persists assignment grades.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository constructs a GradeRepository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// List returns grades joined with student, assignment and class labels,
// latest submissions first.
func (r *GradeRepository) List(ctx context.Context, filter models.GradeFilter) ([]models.GradeDetail, error) {
	args := []interface{}{}
	conditions := []string{"1=1"}
	if filter.StudentID > 0 {
		conditions = append(conditions, fmt.Sprintf("g.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.AssignmentID > 0 {
		conditions = append(conditions, fmt.Sprintf("g.assignment_id = $%d", len(args)+1))
		args = append(args, filter.AssignmentID)
	}
	if filter.ClassID > 0 {
		conditions = append(conditions, fmt.Sprintf("a.class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.RecentSince != nil {
		conditions = append(conditions, fmt.Sprintf("g.submitted_at >= $%d", len(args)+1))
		args = append(args, *filter.RecentSince)
	}

	query := fmt.Sprintf("SELECT %s\n        %s\n        WHERE %s ORDER BY g.submitted_at DESC NULLS LAST, g.id DESC",
		gradeDetailColumns, gradeDetailJoins, strings.Join(conditions, " AND "))
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	grades := make([]models.GradeDetail, 0)
	if err := r.db.SelectContext(ctx, &grades, query, args...); err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	return grades, nil
}

// FindByID loads a grade with its labels. It returns sql.ErrNoRows when absent.
func (r *GradeRepository) FindByID(ctx context.Context, id int64) (*models.GradeDetail, error) {
	query := fmt.Sprintf("SELECT %s\n        %s\n        WHERE g.id = $1", gradeDetailColumns, gradeDetailJoins)
	var grade models.GradeDetail
	if err := r.db.GetContext(ctx, &grade, query, id); err != nil {
		return nil, err
	}
	return &grade, nil
}

// Upsert stores the grade of a student for an assignment, overwriting an
// existing one. It reports whether a row was overwritten.
func (r *GradeRepository) Upsert(ctx context.Context, grade *models.Grade) (bool, error) {
	const query = `INSERT INTO grades (student_id, assignment_id, grade, percentage, feedback)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (student_id, assignment_id)
DO UPDATE SET grade = EXCLUDED.grade, percentage = EXCLUDED.percentage, feedback = EXCLUDED.feedback
RETURNING id, (xmax <> 0) AS updated`
	var updated bool
	err := r.db.QueryRowxContext(ctx, query, grade.StudentID, grade.AssignmentID, grade.Grade, grade.Percentage, grade.Feedback).
		Scan(&grade.ID, &updated)
	if err != nil {
		return false, fmt.Errorf("upsert grade: %w", err)
	}
	return updated, nil
}

// Update overwrites the mark of an existing grade.
func (r *GradeRepository) Update(ctx context.Context, grade *models.Grade) error {
	const query = `UPDATE grades SET grade = :grade, percentage = :percentage, feedback = :feedback WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, grade); err != nil {
		return fmt.Errorf("update grade: %w", err)
	}
	return nil
}

// Delete removes a grade.
func (r *GradeRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM grades WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete grade: %w", err)
	}
	return nil
}

// ListByStudent returns a student's latest grades with assignment labels.
func (r *GradeRepository) ListByStudent(ctx context.Context, studentID int64, limit int) ([]models.StudentGrade, error) {
	const query = `SELECT g.id, g.student_id, g.assignment_id, g.grade, g.percentage, g.feedback, g.submitted_at,
        a.title AS assignment_title, a.due_date, c.title AS class_title
        FROM grades g
        JOIN assignments a ON a.id = g.assignment_id
        JOIN classes c ON c.id = a.class_id
        WHERE g.student_id = $1
        ORDER BY g.submitted_at DESC NULLS LAST, g.id DESC
        LIMIT $2`
	grades := make([]models.StudentGrade, 0)
	if err := r.db.SelectContext(ctx, &grades, query, studentID, limit); err != nil {
		return nil, fmt.Errorf("list student grades: %w", err)
	}
	return grades, nil
}

// SummaryByStudent counts a student's grades and averages their percentages.
func (r *GradeRepository) SummaryByStudent(ctx context.Context, studentID int64) (models.GradeSummary, error) {
	const query = `SELECT COUNT(*) AS total_assignments, COALESCE(AVG(percentage), 0) AS average_percentage
        FROM grades WHERE student_id = $1`
	var summary models.GradeSummary
	if err := r.db.GetContext(ctx, &summary, query, studentID); err != nil {
		return models.GradeSummary{}, fmt.Errorf("student grade summary: %w", err)
	}
	return summary, nil
}
