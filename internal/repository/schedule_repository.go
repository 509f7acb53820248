package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/cadet-admin-api/internal/models"
)

// ErrScheduleOverlap is returned when a slot intersects another slot on the same day.
var ErrScheduleOverlap = errors.New("schedule overlaps an existing entry")

const scheduleDetailColumns = `cs.id, cs.class_id, cs.day_of_week, to_char(cs.start_time, 'HH24:MI:SS') AS start_time,
        to_char(cs.end_time, 'HH24:MI:SS') AS end_time, c.title, c.room, c.instructor`

// ScheduleRepository persists weekly class schedule slots.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs a ScheduleRepository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// List returns slots joined with their class, ordered by start time.
func (r *ScheduleRepository) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ClassScheduleDetail, error) {
	args := []interface{}{}
	conditions := []string{"1=1"}
	if filter.DayOfWeek > 0 {
		conditions = append(conditions, fmt.Sprintf("cs.day_of_week = $%d", len(args)+1))
		args = append(args, filter.DayOfWeek)
	}
	if filter.ClassID > 0 {
		conditions = append(conditions, fmt.Sprintf("cs.class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}

	query := fmt.Sprintf(`SELECT %s
        FROM class_schedule cs
        JOIN classes c ON c.id = cs.class_id
        WHERE %s ORDER BY cs.start_time, cs.id`, scheduleDetailColumns, strings.Join(conditions, " AND "))

	slots := make([]models.ClassScheduleDetail, 0)
	if err := r.db.SelectContext(ctx, &slots, query, args...); err != nil {
		return nil, fmt.Errorf("list class schedule: %w", err)
	}
	return slots, nil
}

// ListByClass returns the weekly slots of a class ordered by day then start time.
func (r *ScheduleRepository) ListByClass(ctx context.Context, classID int64) ([]models.ClassSchedule, error) {
	const query = `SELECT id, class_id, day_of_week, to_char(start_time, 'HH24:MI:SS') AS start_time, to_char(end_time, 'HH24:MI:SS') AS end_time
        FROM class_schedule WHERE class_id = $1 ORDER BY day_of_week, start_time, id`
	slots := make([]models.ClassSchedule, 0)
	if err := r.db.SelectContext(ctx, &slots, query, classID); err != nil {
		return nil, fmt.Errorf("list schedule for class: %w", err)
	}
	return slots, nil
}

// FindByID loads a slot with its class labels. It returns sql.ErrNoRows when absent.
func (r *ScheduleRepository) FindByID(ctx context.Context, id int64) (*models.ClassScheduleDetail, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM class_schedule cs
        JOIN classes c ON c.id = cs.class_id
        WHERE cs.id = $1`, scheduleDetailColumns)
	var slot models.ClassScheduleDetail
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// Create inserts a slot unless it overlaps another slot on the same day.
func (r *ScheduleRepository) Create(ctx context.Context, slot *models.ClassSchedule) error {
	return r.withDayLock(ctx, slot, func(tx *sqlx.Tx) error {
		const query = `INSERT INTO class_schedule (class_id, day_of_week, start_time, end_time) VALUES ($1, $2, $3, $4) RETURNING id`
		if err := tx.QueryRowxContext(ctx, query, slot.ClassID, slot.DayOfWeek, slot.StartTime, slot.EndTime).Scan(&slot.ID); err != nil {
			return fmt.Errorf("create schedule entry: %w", err)
		}
		return nil
	})
}

// Update overwrites a slot unless the new window overlaps another slot on the same day.
func (r *ScheduleRepository) Update(ctx context.Context, slot *models.ClassSchedule) error {
	return r.withDayLock(ctx, slot, func(tx *sqlx.Tx) error {
		const query = `UPDATE class_schedule SET class_id = $1, day_of_week = $2, start_time = $3, end_time = $4 WHERE id = $5`
		if _, err := tx.ExecContext(ctx, query, slot.ClassID, slot.DayOfWeek, slot.StartTime, slot.EndTime, slot.ID); err != nil {
			return fmt.Errorf("update schedule entry: %w", err)
		}
		return nil
	})
}

// Delete removes a slot.
func (r *ScheduleRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM class_schedule WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete schedule entry: %w", err)
	}
	return nil
}

// withDayLock serialises writers of the same weekday, checks for an overlapping
// slot (ignoring slot.ID when set) and runs write in the same transaction.
func (r *ScheduleRepository) withDayLock(ctx context.Context, slot *models.ClassSchedule, write func(tx *sqlx.Tx) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schedule tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext('class_schedule'), $1)`, slot.DayOfWeek); err != nil {
		return fmt.Errorf("lock schedule day: %w", err)
	}

	const overlapQuery = `SELECT COUNT(*) FROM class_schedule
        WHERE day_of_week = $1 AND start_time < $2 AND end_time > $3 AND id <> $4`
	var overlapping int
	if err = tx.GetContext(ctx, &overlapping, overlapQuery, slot.DayOfWeek, slot.EndTime, slot.StartTime, slot.ID); err != nil {
		return fmt.Errorf("check schedule overlap: %w", err)
	}
	if overlapping > 0 {
		err = ErrScheduleOverlap
		return err
	}

	if err = write(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit schedule tx: %w", err)
	}
	return nil
}
