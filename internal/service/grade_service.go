package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cadet-admin-api/internal/models"
	appErrors "github.com/noah-isme/cadet-admin-api/pkg/errors"
)

const (
	defaultRecentGradeDays = 14
	unfilteredGradeLimit   = 100
)

type gradeRepository interface {
	List(ctx context.Context, filter models.GradeFilter) ([]models.GradeDetail, error)
	FindByID(ctx context.Context, id int64) (*models.GradeDetail, error)
	Upsert(ctx context.Context, grade *models.Grade) (bool, error)
	Update(ctx context.Context, grade *models.Grade) error
	Delete(ctx context.Context, id int64) error
}

type studentFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
}

type assignmentFinder interface {
	FindByID(ctx context.Context, id int64) (*models.AssignmentDetail, error)
}

// GradeQuery selects grades. Recent keeps grades submitted in the last Days days.
type GradeQuery struct {
	StudentID    int64
	AssignmentID int64
	ClassID      int64
	Recent       bool
	Days         int
}

func (q GradeQuery) unfiltered() bool {
	return !q.Recent && q.StudentID == 0 && q.AssignmentID == 0 && q.ClassID == 0
}

// GradeRequest records the mark of a student for an assignment.
type GradeRequest struct {
	StudentID    int64    `json:"student_id" validate:"required,min=1"`
	AssignmentID int64    `json:"assignment_id" validate:"required,min=1"`
	Grade        string   `json:"grade" validate:"required,max=3"`
	Percentage   *float64 `json:"percentage" validate:"required,min=0,max=100"`
	Feedback     *string  `json:"feedback"`
}

// GradeUpdateRequest replaces the mark of an existing grade.
type GradeUpdateRequest struct {
	Grade      string   `json:"grade" validate:"required,max=3"`
	Percentage *float64 `json:"percentage" validate:"required,min=0,max=100"`
	Feedback   *string  `json:"feedback"`
}

// GradeService handles grading.
type GradeService struct {
	repo        gradeRepository
	students    studentFinder
	assignments assignmentFinder
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewGradeService constructs the grade service.
func NewGradeService(repo gradeRepository, students studentFinder, assignments assignmentFinder, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{repo: repo, students: students, assignments: assignments, cache: cache, validator: validate, logger: logger, now: time.Now}
}

// List returns grades, latest submissions first. Without any filter the
// result is capped.
func (s *GradeService) List(ctx context.Context, q GradeQuery) ([]models.GradeDetail, error) {
	filter := models.GradeFilter{StudentID: q.StudentID, AssignmentID: q.AssignmentID, ClassID: q.ClassID}
	if q.Recent {
		days := q.Days
		if days <= 0 {
			days = defaultRecentGradeDays
		}
		since := dateOnly(s.now()).AddDate(0, 0, -days)
		filter.RecentSince = &since
	}
	if q.unfiltered() {
		filter.Limit = unfilteredGradeLimit
	}
	grades, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to fetch grades")
	}
	return grades, nil
}

// Get returns a grade with its student, assignment and class labels.
func (s *GradeService) Get(ctx context.Context, id int64) (*models.GradeDetail, error) {
	grade, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupFailed(err, "grade not found", "failed to fetch grade")
	}
	return grade, nil
}

// Save records the grade of a student for an assignment, overwriting a
// previous one. It reports whether an existing grade was overwritten.
func (s *GradeService) Save(ctx context.Context, req GradeRequest) (*models.Grade, bool, error) {
	req.Grade = strings.TrimSpace(req.Grade)
	if err := s.validator.Struct(req); err != nil {
		return nil, false, invalid(err, "invalid grade payload")
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		return nil, false, lookupFailed(err, "student not found", "failed to save grade")
	}
	if _, err := s.assignments.FindByID(ctx, req.AssignmentID); err != nil {
		return nil, false, lookupFailed(err, "assignment not found", "failed to save grade")
	}
	grade := &models.Grade{
		StudentID:    req.StudentID,
		AssignmentID: req.AssignmentID,
		Grade:        req.Grade,
		Percentage:   *req.Percentage,
		Feedback:     optional(req.Feedback),
	}
	updated, err := s.repo.Upsert(ctx, grade)
	if err != nil {
		return nil, false, writeFailed(err, "student or assignment not found", "failed to save grade")
	}
	s.cache.InvalidateStats(ctx)
	s.logger.Info("grade saved", zap.Int64("grade_id", grade.ID), zap.Bool("updated", updated))
	return grade, updated, nil
}

// Update replaces the mark of an existing grade.
func (s *GradeService) Update(ctx context.Context, id int64, req GradeUpdateRequest) (*models.Grade, error) {
	req.Grade = strings.TrimSpace(req.Grade)
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid grade payload")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupFailed(err, "grade not found", "failed to fetch grade")
	}
	grade := existing.Grade
	grade.Grade = req.Grade
	grade.Percentage = *req.Percentage
	grade.Feedback = optional(req.Feedback)
	if err := s.repo.Update(ctx, &grade); err != nil {
		return nil, appErrors.Internal(err, "failed to update grade")
	}
	s.cache.InvalidateStats(ctx)
	return &grade, nil
}

// Delete removes a grade.
func (s *GradeService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return lookupFailed(err, "grade not found", "failed to fetch grade")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Internal(err, "failed to delete grade")
	}
	s.cache.InvalidateStats(ctx)
	return nil
}
