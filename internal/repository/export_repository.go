package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/cadet-admin-api/pkg/database"
)

// Exportable resources.
const (
	ExportStudents    = "students"
	ExportClasses     = "classes"
	ExportAttendance  = "attendance"
	ExportGrades      = "grades"
	ExportAssignments = "assignments"
)

var exportQueries = map[string]string{
	ExportStudents: `SELECT id, name, rank, squadron, year, email FROM students ORDER BY name, id LIMIT $1`,
	ExportClasses:  `SELECT id, title, instructor, room, description FROM classes ORDER BY title, id LIMIT $1`,
	ExportAttendance: `SELECT a.date, s.name AS student, c.title AS class, a.status, a.notes
        FROM attendance a
        JOIN students s ON s.id = a.student_id
        JOIN classes c ON c.id = a.class_id
        ORDER BY a.date DESC, s.name, a.id LIMIT $1`,
	ExportGrades: `SELECT s.name AS student, a.title AS assignment, c.title AS class, g.grade, g.percentage, g.submitted_at
        FROM grades g
        JOIN students s ON s.id = g.student_id
        JOIN assignments a ON a.id = g.assignment_id
        JOIN classes c ON c.id = a.class_id
        ORDER BY g.submitted_at DESC NULLS LAST, g.id DESC LIMIT $1`,
	ExportAssignments: `SELECT a.id, a.title, c.title AS class, a.due_date, a.description
        FROM assignments a
        JOIN classes c ON c.id = a.class_id
        ORDER BY a.due_date DESC NULLS LAST, a.id LIMIT $1`,
}

// ExportRepository reads flat tabular snapshots for file exports.
type ExportRepository struct {
	db *sqlx.DB
}

// NewExportRepository constructs an ExportRepository.
func NewExportRepository(db *sqlx.DB) *ExportRepository {
	return &ExportRepository{db: db}
}

// Supports reports whether resource can be exported.
func (r *ExportRepository) Supports(resource string) bool {
	_, ok := exportQueries[resource]
	return ok
}

// Rows returns the column order and at most limit rows of resource.
func (r *ExportRepository) Rows(ctx context.Context, resource string, limit int) ([]string, []database.Row, error) {
	query, ok := exportQueries[resource]
	if !ok {
		return nil, nil, fmt.Errorf("unknown export resource %q", resource)
	}
	columns, rows, err := database.QueryWithColumns(ctx, r.db, query, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("export %s: %w", resource, err)
	}
	return columns, rows, nil
}
