package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cadet-admin-api/internal/models"
	appErrors "github.com/noah-isme/cadet-admin-api/pkg/errors"
)

const (
	defaultAbsenceDays = 7
	recentAbsenceLimit = 10
)

type attendanceRepository interface {
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error)
	Record(ctx context.Context, attendance *models.Attendance) error
	ListRecentAbsences(ctx context.Context, since time.Time, limit int) ([]models.AttendanceRecord, error)
}

// AttendanceRequest marks one student for one class session.
type AttendanceRequest struct {
	StudentID int64   `json:"student_id" validate:"required,min=1"`
	ClassID   int64   `json:"class_id" validate:"required,min=1"`
	Date      string  `json:"date" validate:"required"`
	Status    string  `json:"status" validate:"required,oneof=present absent authorized_leave medical unauthorized"`
	Notes     *string `json:"notes"`
}

// AttendanceService records and lists attendance marks.
type AttendanceService struct {
	repo      attendanceRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(repo attendanceRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, cache: cache, validator: validate, logger: logger, now: time.Now}
}

// List returns the marks of one day, today when date is nil.
func (s *AttendanceService) List(ctx context.Context, date *time.Time, classID int64) ([]models.AttendanceRecord, error) {
	day := dateOnly(s.now())
	if date != nil {
		day = dateOnly(*date)
	}
	records, err := s.repo.List(ctx, models.AttendanceFilter{Date: day, ClassID: classID})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to fetch attendance")
	}
	return records, nil
}

// Record stores a mark, replacing an earlier mark of the same student, class and date.
func (s *AttendanceService) Record(ctx context.Context, req AttendanceRequest) (*models.Attendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid attendance payload")
	}
	date, err := ParseDate(req.Date, s.now().Location())
	if err != nil {
		return nil, err
	}
	record := &models.Attendance{
		StudentID: req.StudentID,
		ClassID:   req.ClassID,
		Date:      date,
		Status:    models.AttendanceStatus(req.Status),
		Notes:     optional(req.Notes),
	}
	if err := s.repo.Record(ctx, record); err != nil {
		return nil, writeFailed(err, "student or class not found", "failed to record attendance")
	}
	s.cache.InvalidateStats(ctx)
	s.logger.Debug("attendance recorded",
		zap.Int64("student_id", record.StudentID),
		zap.Int64("class_id", record.ClassID),
		zap.String("date", req.Date),
		zap.String("status", req.Status),
	)
	return record, nil
}

// RecentAbsences returns the latest non-present marks of the trailing window.
func (s *AttendanceService) RecentAbsences(ctx context.Context, days int) ([]models.AttendanceRecord, error) {
	if days <= 0 {
		days = defaultAbsenceDays
	}
	since := dateOnly(s.now()).AddDate(0, 0, -days)
	records, err := s.repo.ListRecentAbsences(ctx, since, recentAbsenceLimit)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to fetch recent absences")
	}
	return records, nil
}
