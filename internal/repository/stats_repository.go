package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/cadet-admin-api/internal/models"
)

// StatsRepository exposes the read-only aggregate queries behind the statistics endpoints.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository instantiates the repository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// CountStudents returns the number of students.
func (r *StatsRepository) CountStudents(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM students`); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return total, nil
}

// CountClasses returns the number of classes.
func (r *StatsRepository) CountClasses(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM classes`); err != nil {
		return 0, fmt.Errorf("count classes: %w", err)
	}
	return total, nil
}

// CountAttendance counts present and total marks dated in [from, until).
func (r *StatsRepository) CountAttendance(ctx context.Context, from, until time.Time) (models.AttendanceCount, error) {
	const query = `SELECT COUNT(*) FILTER (WHERE status = 'present') AS present_count, COUNT(*) AS total_count
        FROM attendance WHERE date >= $1 AND date < $2`
	var count models.AttendanceCount
	if err := r.db.GetContext(ctx, &count, query, from.Format(dateLayout), until.Format(dateLayout)); err != nil {
		return models.AttendanceCount{}, fmt.Errorf("count attendance window: %w", err)
	}
	return count, nil
}

// SquadronDistribution counts students per squadron, largest first.
func (r *StatsRepository) SquadronDistribution(ctx context.Context) ([]models.SquadronCount, error) {
	const query = `SELECT squadron, COUNT(*) AS count FROM students
        WHERE squadron IS NOT NULL GROUP BY squadron ORDER BY count DESC, squadron`
	result := make([]models.SquadronCount, 0)
	if err := r.db.SelectContext(ctx, &result, query); err != nil {
		return nil, fmt.Errorf("squadron distribution: %w", err)
	}
	return result, nil
}

// YearDistribution counts students per year, ascending by year.
func (r *StatsRepository) YearDistribution(ctx context.Context) ([]models.YearCount, error) {
	const query = `SELECT year, COUNT(*) AS count FROM students
        WHERE year IS NOT NULL GROUP BY year ORDER BY year`
	result := make([]models.YearCount, 0)
	if err := r.db.SelectContext(ctx, &result, query); err != nil {
		return nil, fmt.Errorf("year distribution: %w", err)
	}
	return result, nil
}

// RankDistribution counts students per rank, largest first.
func (r *StatsRepository) RankDistribution(ctx context.Context) ([]models.RankCount, error) {
	const query = `SELECT rank, COUNT(*) AS count FROM students
        WHERE rank IS NOT NULL GROUP BY rank ORDER BY count DESC, rank`
	result := make([]models.RankCount, 0)
	if err := r.db.SelectContext(ctx, &result, query); err != nil {
		return nil, fmt.Errorf("rank distribution: %w", err)
	}
	return result, nil
}

// InstructorDistribution counts classes per instructor, largest first.
func (r *StatsRepository) InstructorDistribution(ctx context.Context) ([]models.InstructorCount, error) {
	const query = `SELECT instructor, COUNT(*) AS count FROM classes
        WHERE instructor IS NOT NULL GROUP BY instructor ORDER BY count DESC, instructor`
	result := make([]models.InstructorCount, 0)
	if err := r.db.SelectContext(ctx, &result, query); err != nil {
		return nil, fmt.Errorf("instructor distribution: %w", err)
	}
	return result, nil
}

// TopStudentsByAttendance ranks students by number of present marks. Students
// without marks are included with zero counts. Ties keep the lowest id first.
func (r *StatsRepository) TopStudentsByAttendance(ctx context.Context, limit int) ([]models.StudentAttendanceRank, error) {
	const query = `SELECT s.id, s.name, s.rank,
        COUNT(*) FILTER (WHERE a.status = 'present') AS present_count,
        COUNT(a.id) AS total_count
        FROM students s
        LEFT JOIN attendance a ON a.student_id = s.id
        GROUP BY s.id, s.name, s.rank
        ORDER BY present_count DESC, s.id
        LIMIT $1`
	result := make([]models.StudentAttendanceRank, 0)
	if err := r.db.SelectContext(ctx, &result, query, limit); err != nil {
		return nil, fmt.Errorf("top students by attendance: %w", err)
	}
	return result, nil
}

// TopClassesByAttendance ranks classes by number of present marks. Classes
// without marks are included with zero counts. Ties keep the lowest id first.
func (r *StatsRepository) TopClassesByAttendance(ctx context.Context, limit int) ([]models.ClassAttendanceRank, error) {
	const query = `SELECT c.id, c.title,
        COUNT(DISTINCT a.student_id) AS student_count,
        COUNT(*) FILTER (WHERE a.status = 'present') AS present_count,
        COUNT(a.id) AS total_count
        FROM classes c
        LEFT JOIN attendance a ON a.class_id = c.id
        GROUP BY c.id, c.title
        ORDER BY present_count DESC, c.id
        LIMIT $1`
	result := make([]models.ClassAttendanceRank, 0)
	if err := r.db.SelectContext(ctx, &result, query, limit); err != nil {
		return nil, fmt.Errorf("top classes by attendance: %w", err)
	}
	return result, nil
}

// GradeTotals returns the number of grades and their mean percentage.
func (r *StatsRepository) GradeTotals(ctx context.Context) (models.GradeSummary, error) {
	const query = `SELECT COUNT(*) AS total_assignments, COALESCE(AVG(percentage), 0) AS average_percentage FROM grades`
	var summary models.GradeSummary
	if err := r.db.GetContext(ctx, &summary, query); err != nil {
		return models.GradeSummary{}, fmt.Errorf("grade totals: %w", err)
	}
	return summary, nil
}

// PercentageCounts groups grades by exact percentage for letter bucketing.
func (r *StatsRepository) PercentageCounts(ctx context.Context) ([]models.PercentageCount, error) {
	const query = `SELECT percentage, COUNT(*) AS count FROM grades GROUP BY percentage ORDER BY percentage DESC`
	result := make([]models.PercentageCount, 0)
	if err := r.db.SelectContext(ctx, &result, query); err != nil {
		return nil, fmt.Errorf("grade percentage counts: %w", err)
	}
	return result, nil
}

// TopStudentsByGrade ranks students with at least one grade by mean
// percentage. Ties keep the lowest id first.
func (r *StatsRepository) TopStudentsByGrade(ctx context.Context, limit int) ([]models.StudentGradeAverage, error) {
	const query = `SELECT s.id, s.name, AVG(g.percentage) AS average_grade, COUNT(g.id) AS assignments_count
        FROM students s
        JOIN grades g ON g.student_id = s.id
        GROUP BY s.id, s.name
        HAVING COUNT(g.id) > 0
        ORDER BY average_grade DESC, s.id
        LIMIT $1`
	result := make([]models.StudentGradeAverage, 0)
	if err := r.db.SelectContext(ctx, &result, query, limit); err != nil {
		return nil, fmt.Errorf("top students by grade: %w", err)
	}
	return result, nil
}
