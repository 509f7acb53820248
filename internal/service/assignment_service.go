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

const defaultUpcomingDays = 7

type assignmentRepository interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, error)
	FindByID(ctx context.Context, id int64) (*models.AssignmentDetail, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id int64) error
}

// AssignmentQuery selects assignments. Upcoming keeps those due within the next Days days.
type AssignmentQuery struct {
	Upcoming bool
	Days     int
	ClassID  int64
}

// AssignmentRequest is the payload for creating or replacing an assignment.
type AssignmentRequest struct {
	Title       string  `json:"title" validate:"required"`
	ClassID     int64   `json:"class_id" validate:"required,min=1"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
}

// AssignmentService handles class coursework.
type AssignmentService struct {
	repo      assignmentRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAssignmentService constructs the assignment service.
func NewAssignmentService(repo assignmentRepository, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// List returns assignments. Upcoming results carry a progress label derived
// from whether any grade was recorded yet.
func (s *AssignmentService) List(ctx context.Context, q AssignmentQuery) ([]models.AssignmentDetail, error) {
	filter := models.AssignmentFilter{ClassID: q.ClassID, Upcoming: q.Upcoming}
	if q.Upcoming {
		days := q.Days
		if days <= 0 {
			days = defaultUpcomingDays
		}
		filter.From = dateOnly(s.now())
		filter.To = filter.From.AddDate(0, 0, days)
	}
	assignments, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to fetch assignments")
	}
	if q.Upcoming {
		for i := range assignments {
			assignments[i].Status = progressLabel(assignments[i].GradedCount)
		}
	}
	return assignments, nil
}

// Get returns a single assignment.
func (s *AssignmentService) Get(ctx context.Context, id int64) (*models.AssignmentDetail, error) {
	assignment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupFailed(err, "assignment not found", "failed to fetch assignment")
	}
	return assignment, nil
}

// Create registers an assignment for an existing class.
func (s *AssignmentService) Create(ctx context.Context, req AssignmentRequest) (*models.Assignment, error) {
	assignment, err := s.build(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, writeFailed(err, "class not found", "failed to create assignment")
	}
	s.logger.Info("assignment created", zap.Int64("assignment_id", assignment.ID), zap.Int64("class_id", assignment.ClassID))
	return assignment, nil
}

// Update overwrites every field of an existing assignment.
func (s *AssignmentService) Update(ctx context.Context, id int64, req AssignmentRequest) (*models.Assignment, error) {
	assignment, err := s.build(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, lookupFailed(err, "assignment not found", "failed to fetch assignment")
	}
	assignment.ID = id
	if err := s.repo.Update(ctx, assignment); err != nil {
		return nil, writeFailed(err, "class not found", "failed to update assignment")
	}
	return assignment, nil
}

// Delete removes an assignment without grades.
func (s *AssignmentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return lookupFailed(err, "assignment not found", "failed to fetch assignment")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return deleteFailed(err, "assignment", "failed to delete assignment")
	}
	return nil
}

func (s *AssignmentService) build(req AssignmentRequest) (*models.Assignment, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid assignment payload")
	}
	assignment := &models.Assignment{Title: req.Title, ClassID: req.ClassID, Description: optional(req.Description)}
	if due := optional(req.DueDate); due != nil {
		parsed, err := ParseDate(*due, s.now().Location())
		if err != nil {
			return nil, badRequest("due_date must be YYYY-MM-DD")
		}
		assignment.DueDate = &parsed
	}
	return assignment, nil
}

func progressLabel(gradedCount int) string {
	if gradedCount > 0 {
		return models.AssignmentInProgress
	}
	return models.AssignmentNotStarted
}
