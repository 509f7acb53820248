package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/cadet-admin-api/internal/models"
)

const studentColumns = "s.id, s.name, s.rank, s.squadron, s.year, s.email"

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching the provided filters ordered by name.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Search != "" {
		idx := len(args) + 1
		conditions = append(conditions, fmt.Sprintf("(LOWER(s.name) LIKE $%[1]d ESCAPE '\\' OR LOWER(s.rank) LIKE $%[1]d ESCAPE '\\' OR LOWER(s.email) LIKE $%[1]d ESCAPE '\\')", idx))
		args = append(args, containsPattern(filter.Search))
	}
	if filter.Squadron != "" {
		conditions = append(conditions, fmt.Sprintf("s.squadron = $%d", len(args)+1))
		args = append(args, filter.Squadron)
	}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("s.year = $%d", len(args)+1))
		args = append(args, *filter.Year)
	}

	query := fmt.Sprintf("SELECT %s FROM students s WHERE %s ORDER BY s.name, s.id", studentColumns, strings.Join(conditions, " AND "))

	students := make([]models.Student, 0)
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student by ID. It returns sql.ErrNoRows when absent.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students s WHERE s.id = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts a new student and sets its generated ID.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	const query = `INSERT INTO students (name, rank, squadron, year, email) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, student.Name, student.Rank, student.Squadron, student.Year, student.Email).Scan(&student.ID); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update overwrites every mutable column of a student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	const query = `UPDATE students SET name = :name, rank = :rank, squadron = :squadron, year = :year, email = :email WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Delete removes a student. Attendance or grade rows referencing it make the
// statement fail with a foreign key violation.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}
