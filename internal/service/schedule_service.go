package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cadet-admin-api/internal/models"
	"github.com/noah-isme/cadet-admin-api/internal/repository"
	appErrors "github.com/noah-isme/cadet-admin-api/pkg/errors"
)

type scheduleRepository interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.ClassScheduleDetail, error)
	FindByID(ctx context.Context, id int64) (*models.ClassScheduleDetail, error)
	Create(ctx context.Context, slot *models.ClassSchedule) error
	Update(ctx context.Context, slot *models.ClassSchedule) error
	Delete(ctx context.Context, id int64) error
}

type dailyAttendanceCounter interface {
	CountsByClassOn(ctx context.Context, date time.Time) (map[int64]models.AttendanceCount, error)
}

// ScheduleQuery selects schedule slots. Today overrides Day with the current weekday.
type ScheduleQuery struct {
	Day     int
	Today   bool
	ClassID int64
}

// ScheduleRequest is the payload for creating or replacing a schedule slot.
type ScheduleRequest struct {
	ClassID   int64  `json:"class_id" validate:"required,min=1"`
	DayOfWeek int    `json:"day_of_week" validate:"required,min=1,max=7"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// ScheduleService handles the weekly class timetable.
type ScheduleService struct {
	repo       scheduleRepository
	attendance dailyAttendanceCounter
	validator  *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

// NewScheduleService constructs the schedule service.
func NewScheduleService(repo scheduleRepository, attendance dailyAttendanceCounter, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, attendance: attendance, validator: validate, logger: logger, now: time.Now}
}

// List returns slots ordered by start time, each with today's attendance of its class.
func (s *ScheduleService) List(ctx context.Context, q ScheduleQuery) ([]models.ScheduleSlot, error) {
	now := s.now()
	filter := models.ScheduleFilter{DayOfWeek: q.Day, ClassID: q.ClassID}
	if q.Today {
		filter.DayOfWeek = isoWeekday(now)
	}
	if filter.DayOfWeek < 0 || filter.DayOfWeek > 7 {
		return nil, badRequest("day must be between 1 and 7")
	}
	details, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to fetch class schedule")
	}
	counts, err := s.attendance.CountsByClassOn(ctx, dateOnly(now))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to fetch class schedule")
	}
	return enrichSlots(details, counts), nil
}

// Week groups every slot by weekday, Monday first. Days without classes are
// present with an empty list.
func (s *ScheduleService) Week(ctx context.Context, classID int64) ([]models.ScheduleDay, error) {
	slots, err := s.List(ctx, ScheduleQuery{ClassID: classID})
	if err != nil {
		return nil, err
	}
	week := make([]models.ScheduleDay, 7)
	for i := range week {
		day := i + 1
		week[i] = models.ScheduleDay{Day: day, DayName: models.Weekdays[day], Classes: []models.ScheduleSlot{}}
	}
	for _, slot := range slots {
		if slot.DayOfWeek >= 1 && slot.DayOfWeek <= 7 {
			week[slot.DayOfWeek-1].Classes = append(week[slot.DayOfWeek-1].Classes, slot)
		}
	}
	return week, nil
}

// Get returns a single slot with its class labels.
func (s *ScheduleService) Get(ctx context.Context, id int64) (*models.ClassScheduleDetail, error) {
	slot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupFailed(err, "schedule entry not found", "failed to fetch schedule entry")
	}
	return slot, nil
}

// Create adds a slot unless it overlaps another slot on the same day.
func (s *ScheduleService) Create(ctx context.Context, req ScheduleRequest) (*models.ClassSchedule, error) {
	slot, err := s.buildSlot(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, scheduleWriteFailed(err, "failed to create schedule entry")
	}
	s.logger.Info("schedule entry created", zap.Int64("schedule_id", slot.ID), zap.Int("day_of_week", slot.DayOfWeek))
	return slot, nil
}

// Update replaces a slot. The slot itself is ignored by the overlap check.
func (s *ScheduleService) Update(ctx context.Context, id int64, req ScheduleRequest) (*models.ClassSchedule, error) {
	slot, err := s.buildSlot(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, lookupFailed(err, "schedule entry not found", "failed to fetch schedule entry")
	}
	slot.ID = id
	if err := s.repo.Update(ctx, slot); err != nil {
		return nil, scheduleWriteFailed(err, "failed to update schedule entry")
	}
	return slot, nil
}

// Delete removes a slot.
func (s *ScheduleService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return lookupFailed(err, "schedule entry not found", "failed to fetch schedule entry")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Internal(err, "failed to delete schedule entry")
	}
	return nil
}

func (s *ScheduleService) buildSlot(req ScheduleRequest) (*models.ClassSchedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid schedule payload")
	}
	start, err := parseClock("start_time", req.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseClock("end_time", req.EndTime)
	if err != nil {
		return nil, err
	}
	if end <= start {
		return nil, badRequest("end_time must be after start_time")
	}
	return &models.ClassSchedule{ClassID: req.ClassID, DayOfWeek: req.DayOfWeek, StartTime: start, EndTime: end}, nil
}

func scheduleWriteFailed(err error, failed string) error {
	if errors.Is(err, repository.ErrScheduleOverlap) {
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "schedule conflicts with an existing class")
	}
	return writeFailed(err, "class not found", failed)
}

func enrichSlots(details []models.ClassScheduleDetail, counts map[int64]models.AttendanceCount) []models.ScheduleSlot {
	slots := make([]models.ScheduleSlot, 0, len(details))
	for _, detail := range details {
		count := counts[detail.ClassID]
		slots = append(slots, models.ScheduleSlot{
			ClassScheduleDetail: detail,
			Attendance:          count.Present,
			Total:               count.Total,
			Time:                clockLabel(detail.StartTime) + " - " + clockLabel(detail.EndTime),
		})
	}
	return slots
}

func clockLabel(value string) string {
	if len(value) >= 5 {
		return value[:5]
	}
	return value
}
