package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cadet-admin-api/internal/dto"
	"github.com/noah-isme/cadet-admin-api/internal/models"
	appErrors "github.com/noah-isme/cadet-admin-api/pkg/errors"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
}

type studentAttendanceReader interface {
	ListByStudent(ctx context.Context, studentID int64, limit int) ([]models.StudentAttendanceRecord, error)
	BreakdownByStudent(ctx context.Context, studentID int64) (models.AttendanceBreakdown, error)
}

type studentGradeReader interface {
	ListByStudent(ctx context.Context, studentID int64, limit int) ([]models.StudentGrade, error)
	SummaryByStudent(ctx context.Context, studentID int64) (models.GradeSummary, error)
}

// StudentRequest is the payload for creating or replacing a student.
type StudentRequest struct {
	Name     string  `json:"name" validate:"required"`
	Rank     *string `json:"rank"`
	Squadron *string `json:"squadron"`
	Year     *int    `json:"year" validate:"omitempty,min=1"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

func (r StudentRequest) normalize() StudentRequest {
	r.Name = strings.TrimSpace(r.Name)
	r.Rank = optional(r.Rank)
	r.Squadron = optional(r.Squadron)
	r.Email = optional(r.Email)
	return r
}

// StudentService handles student use-cases.
type StudentService struct {
	repo       studentRepository
	attendance studentAttendanceReader
	grades     studentGradeReader
	cache      *CacheService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, attendance studentAttendanceReader, grades studentGradeReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, attendance: attendance, grades: grades, cache: cache, validator: validate, logger: logger}
}

// List returns students matching filter, ordered by name.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	students, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to fetch students")
	}
	return students, nil
}

// Get returns a single student.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupFailed(err, "student not found", "failed to fetch student")
	}
	return student, nil
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req StudentRequest) (*models.Student, error) {
	req = req.normalize()
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid student payload")
	}
	student := &models.Student{Name: req.Name, Rank: req.Rank, Squadron: req.Squadron, Year: req.Year, Email: req.Email}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Internal(err, "failed to create student")
	}
	s.cache.InvalidateStats(ctx)
	s.logger.Info("student created", zap.Int64("student_id", student.ID))
	return student, nil
}

// Update overwrites every field of an existing student.
func (s *StudentService) Update(ctx context.Context, id int64, req StudentRequest) (*models.Student, error) {
	req = req.normalize()
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid student payload")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, lookupFailed(err, "student not found", "failed to fetch student")
	}
	student := &models.Student{ID: id, Name: req.Name, Rank: req.Rank, Squadron: req.Squadron, Year: req.Year, Email: req.Email}
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Internal(err, "failed to update student")
	}
	s.cache.InvalidateStats(ctx)
	return student, nil
}

// Delete removes a student without attendance or grades.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return lookupFailed(err, "student not found", "failed to fetch student")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return deleteFailed(err, "student", "failed to delete student")
	}
	s.cache.InvalidateStats(ctx)
	s.logger.Info("student deleted", zap.Int64("student_id", id))
	return nil
}

// Attendance returns a student's latest attendance marks with status totals.
func (s *StudentService) Attendance(ctx context.Context, id int64, limit int) (*dto.StudentAttendanceResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, lookupFailed(err, "student not found", "failed to fetch student attendance")
	}
	records, err := s.attendance.ListByStudent(ctx, id, historyLimit(limit))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to fetch student attendance")
	}
	breakdown, err := s.attendance.BreakdownByStudent(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to fetch student attendance")
	}
	breakdown.AttendanceRate = PercentRate(breakdown.Present, breakdown.Total)
	return &dto.StudentAttendanceResponse{Records: records, Stats: breakdown}, nil
}

// Grades returns a student's latest grades with their count and rounded average.
func (s *StudentService) Grades(ctx context.Context, id int64, limit int) (*dto.StudentGradesResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, lookupFailed(err, "student not found", "failed to fetch student grades")
	}
	grades, err := s.grades.ListByStudent(ctx, id, historyLimit(limit))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to fetch student grades")
	}
	summary, err := s.grades.SummaryByStudent(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to fetch student grades")
	}
	return &dto.StudentGradesResponse{
		Grades: grades,
		Stats: dto.StudentGradeStats{
			TotalAssignments:  summary.TotalAssignments,
			AveragePercentage: roundInt(summary.AveragePercentage),
		},
	}, nil
}

func historyLimit(limit int) int {
	if limit <= 0 {
		return defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		return maxHistoryLimit
	}
	return limit
}
