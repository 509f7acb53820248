package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/cadet-admin-api/internal/dto"
	"github.com/noah-isme/cadet-admin-api/internal/models"
	appErrors "github.com/noah-isme/cadet-admin-api/pkg/errors"
)

const defaultWidgetTimeout = 3 * time.Second

type rosterCounter interface {
	CountStudents(ctx context.Context) (int, error)
	CountClasses(ctx context.Context) (int, error)
}

type scheduleLister interface {
	List(ctx context.Context, q ScheduleQuery) ([]models.ScheduleSlot, error)
}

type absenceLister interface {
	RecentAbsences(ctx context.Context, days int) ([]models.AttendanceRecord, error)
}

type assignmentLister interface {
	List(ctx context.Context, q AssignmentQuery) ([]models.AssignmentDetail, error)
}

type gradeLister interface {
	List(ctx context.Context, q GradeQuery) ([]models.GradeDetail, error)
}

type attendanceRater interface {
	AttendanceRate(ctx context.Context, days int) (*dto.AttendanceRateResponse, bool, error)
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Counts        rosterCounter
	Schedule      scheduleLister
	Absences      absenceLister
	Assignments   assignmentLister
	Grades        gradeLister
	Rates         attendanceRater
	Metrics       *MetricsService
	Logger        *zap.Logger
	WidgetTimeout time.Duration
}

// DashboardService composes the landing page from independent widgets.
type DashboardService struct {
	counts        rosterCounter
	schedule      scheduleLister
	absences      absenceLister
	assignments   assignmentLister
	grades        gradeLister
	rates         attendanceRater
	metrics       *MetricsService
	logger        *zap.Logger
	widgetTimeout time.Duration
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := params.WidgetTimeout
	if timeout <= 0 {
		timeout = defaultWidgetTimeout
	}
	return &DashboardService{
		counts:        params.Counts,
		schedule:      params.Schedule,
		absences:      params.Absences,
		assignments:   params.Assignments,
		grades:        params.Grades,
		rates:         params.Rates,
		metrics:       params.Metrics,
		logger:        logger,
		widgetTimeout: timeout,
	}
}

// Summary loads every widget concurrently. A widget that fails or times out
// carries an error message while the others are still returned.
func (s *DashboardService) Summary(ctx context.Context) *dto.DashboardResponse {
	resp := &dto.DashboardResponse{}
	var g errgroup.Group

	load := func(name string, slot *dto.Widget, fetch func(ctx context.Context) (interface{}, error)) {
		g.Go(func() error {
			wctx, cancel := context.WithTimeout(ctx, s.widgetTimeout)
			defer cancel()

			data, err := fetch(wctx)
			if err != nil {
				slot.Error = widgetError(err)
				s.metrics.WidgetFailed(name)
				s.logger.Warn("dashboard widget failed", zap.String("widget", name), zap.Error(err))
				return nil
			}
			slot.Data = data
			return nil
		})
	}

	load("total_students", &resp.TotalStudents, func(ctx context.Context) (interface{}, error) {
		return s.counts.CountStudents(ctx)
	})
	load("total_classes", &resp.TotalClasses, func(ctx context.Context) (interface{}, error) {
		return s.counts.CountClasses(ctx)
	})
	load("today_schedule", &resp.TodaySchedule, func(ctx context.Context) (interface{}, error) {
		return s.schedule.List(ctx, ScheduleQuery{Today: true})
	})
	load("recent_absences", &resp.RecentAbsences, func(ctx context.Context) (interface{}, error) {
		return s.absences.RecentAbsences(ctx, defaultAbsenceDays)
	})
	load("upcoming_assignments", &resp.UpcomingAssignments, func(ctx context.Context) (interface{}, error) {
		return s.assignments.List(ctx, AssignmentQuery{Upcoming: true, Days: defaultUpcomingDays})
	})
	load("recent_grades", &resp.RecentGrades, func(ctx context.Context) (interface{}, error) {
		return s.grades.List(ctx, GradeQuery{Recent: true})
	})
	load("attendance_rate", &resp.AttendanceRate, func(ctx context.Context) (interface{}, error) {
		rate, _, err := s.rates.AttendanceRate(ctx, defaultRateDays)
		return rate, err
	})

	_ = g.Wait()
	return resp
}

func widgetError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timed out"
	}
	return appErrors.FromError(err).Message
}
