package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/cadet-admin-api/internal/models"
)

const assignmentDetailColumns = `a.id, a.title, a.class_id, a.description, a.due_date, c.title AS class_title,
        (SELECT COUNT(*) FROM grades g WHERE g.assignment_id = a.id) AS graded_count`

// AssignmentRepository persists class assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// List returns assignments with their class title. Upcoming listings are
// ordered by nearest due date, all others by latest due date.
func (r *AssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, error) {
	args := []interface{}{}
	conditions := []string{"1=1"}
	if filter.ClassID > 0 {
		conditions = append(conditions, fmt.Sprintf("a.class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	order := "a.due_date DESC NULLS LAST, a.id"
	if filter.Upcoming {
		conditions = append(conditions, fmt.Sprintf("a.due_date >= $%d AND a.due_date <= $%d", len(args)+1, len(args)+2))
		args = append(args, filter.From.Format(dateLayout), filter.To.Format(dateLayout))
		order = "a.due_date ASC, a.id"
	}

	query := fmt.Sprintf(`SELECT %s
        FROM assignments a
        JOIN classes c ON c.id = a.class_id
        WHERE %s ORDER BY %s`, assignmentDetailColumns, strings.Join(conditions, " AND "), order)

	assignments := make([]models.AssignmentDetail, 0)
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// FindByID loads an assignment. It returns sql.ErrNoRows when absent.
func (r *AssignmentRepository) FindByID(ctx context.Context, id int64) (*models.AssignmentDetail, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM assignments a
        JOIN classes c ON c.id = a.class_id
        WHERE a.id = $1`, assignmentDetailColumns)
	var assignment models.AssignmentDetail
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Create inserts an assignment and sets its generated ID.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	const query = `INSERT INTO assignments (title, class_id, description, due_date) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, assignment.Title, assignment.ClassID, assignment.Description, assignment.DueDate).Scan(&assignment.ID); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// Update overwrites every mutable column of an assignment.
func (r *AssignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	const query = `UPDATE assignments SET title = :title, class_id = :class_id, description = :description, due_date = :due_date WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	return nil
}

// Delete removes an assignment. Existing grades make the statement fail with a
// foreign key violation.
func (r *AssignmentRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}
