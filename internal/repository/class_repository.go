package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/cadet-admin-api/internal/models"
)

const classColumns = "c.id, c.title, c.description, c.instructor, c.room"

// ClassRepository handles persistence for classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns classes ordered by title, optionally filtered by a search term.
func (r *ClassRepository) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, error) {
	query := fmt.Sprintf("SELECT %s FROM classes c", classColumns)
	args := []interface{}{}
	if filter.Search != "" {
		query += ` WHERE (LOWER(c.title) LIKE $1 ESCAPE '\' OR LOWER(c.instructor) LIKE $1 ESCAPE '\' OR LOWER(c.room) LIKE $1 ESCAPE '\')`
		args = append(args, containsPattern(filter.Search))
	}
	query += " ORDER BY c.title, c.id"

	classes := make([]models.Class, 0)
	if err := r.db.SelectContext(ctx, &classes, query, args...); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// FindByID loads a class. It returns sql.ErrNoRows when absent.
func (r *ClassRepository) FindByID(ctx context.Context, id int64) (*models.Class, error) {
	query := fmt.Sprintf("SELECT %s FROM classes c WHERE c.id = $1", classColumns)
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// EnrolledCount counts distinct students with attendance in the class.
func (r *ClassRepository) EnrolledCount(ctx context.Context, id int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(DISTINCT student_id) FROM attendance WHERE class_id = $1`, id); err != nil {
		return 0, fmt.Errorf("count enrolled students: %w", err)
	}
	return count, nil
}

// Create inserts a class and sets its generated ID.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	const query = `INSERT INTO classes (title, description, instructor, room) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, class.Title, class.Description, class.Instructor, class.Room).Scan(&class.ID); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update overwrites every mutable column of a class.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	const query = `UPDATE classes SET title = :title, description = :description, instructor = :instructor, room = :room WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	return nil
}

// Delete removes a class together with its weekly schedule. Attendance or
// assignments still referencing the class abort the transaction with a
// foreign key violation.
func (r *ClassRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete class tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM class_schedule WHERE class_id = $1`, id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete class schedule: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete class: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete class tx: %w", err)
	}
	return nil
}
