package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cadet-admin-api/internal/dto"
	"github.com/noah-isme/cadet-admin-api/internal/models"
	appErrors "github.com/noah-isme/cadet-admin-api/pkg/errors"
)

type classRepository interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.Class, error)
	FindByID(ctx context.Context, id int64) (*models.Class, error)
	EnrolledCount(ctx context.Context, id int64) (int, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id int64) error
}

type classScheduleReader interface {
	ListByClass(ctx context.Context, classID int64) ([]models.ClassSchedule, error)
}

type classSessionReader interface {
	ListByClassSession(ctx context.Context, classID int64, date time.Time) ([]models.ClassStudent, error)
	BreakdownByClassSession(ctx context.Context, classID int64, date time.Time) (models.AttendanceBreakdown, error)
}

// ClassRequest is the payload for creating or replacing a class.
type ClassRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	Instructor  *string `json:"instructor"`
	Room        *string `json:"room"`
}

func (r ClassRequest) normalize() ClassRequest {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = optional(r.Description)
	r.Instructor = optional(r.Instructor)
	r.Room = optional(r.Room)
	return r
}

// ClassService handles class use-cases.
type ClassService struct {
	repo      classRepository
	schedule  classScheduleReader
	sessions  classSessionReader
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewClassService constructs the class service.
func NewClassService(repo classRepository, schedule classScheduleReader, sessions classSessionReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, schedule: schedule, sessions: sessions, cache: cache, validator: validate, logger: logger, now: time.Now}
}

// List returns classes ordered by title.
func (s *ClassService) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	classes, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to fetch classes")
	}
	return classes, nil
}

// Get returns a class with its weekly schedule and enrolment count.
func (s *ClassService) Get(ctx context.Context, id int64) (*models.ClassDetail, error) {
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupFailed(err, "class not found", "failed to fetch class")
	}
	slots, err := s.schedule.ListByClass(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to fetch class")
	}
	enrolled, err := s.repo.EnrolledCount(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to fetch class")
	}
	return &models.ClassDetail{Class: *class, Schedule: slots, EnrolledCount: enrolled}, nil
}

// Create registers a new class.
func (s *ClassService) Create(ctx context.Context, req ClassRequest) (*models.Class, error) {
	req = req.normalize()
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid class payload")
	}
	class := &models.Class{Title: req.Title, Description: req.Description, Instructor: req.Instructor, Room: req.Room}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, appErrors.Internal(err, "failed to create class")
	}
	s.cache.InvalidateStats(ctx)
	s.logger.Info("class created", zap.Int64("class_id", class.ID))
	return class, nil
}

// Update overwrites every field of an existing class.
func (s *ClassService) Update(ctx context.Context, id int64, req ClassRequest) (*models.Class, error) {
	req = req.normalize()
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid class payload")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, lookupFailed(err, "class not found", "failed to fetch class")
	}
	class := &models.Class{ID: id, Title: req.Title, Description: req.Description, Instructor: req.Instructor, Room: req.Room}
	if err := s.repo.Update(ctx, class); err != nil {
		return nil, appErrors.Internal(err, "failed to update class")
	}
	s.cache.InvalidateStats(ctx)
	return class, nil
}

// Delete removes a class and its schedule. Classes with attendance or
// assignments are kept and reported as a conflict.
func (s *ClassService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return lookupFailed(err, "class not found", "failed to fetch class")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return deleteFailed(err, "class", "failed to delete class")
	}
	s.cache.InvalidateStats(ctx)
	s.logger.Info("class deleted", zap.Int64("class_id", id))
	return nil
}

// Students lists the students marked in a class session with status totals.
// A nil date means today.
func (s *ClassService) Students(ctx context.Context, id int64, date *time.Time) (*dto.ClassStudentsResponse, error) {
	day := dateOnly(s.now())
	if date != nil {
		day = dateOnly(*date)
	}
	students, err := s.sessions.ListByClassSession(ctx, id, day)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to fetch class students")
	}
	breakdown, err := s.sessions.BreakdownByClassSession(ctx, id, day)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to fetch class students")
	}
	breakdown.AttendanceRate = PercentRate(breakdown.Present, breakdown.Total)
	return &dto.ClassStudentsResponse{Students: students, Stats: breakdown, Date: day.Format(DateLayout)}, nil
}
