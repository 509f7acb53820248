package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/cadet-admin-api/internal/dto"
	"github.com/noah-isme/cadet-admin-api/internal/models"
	appErrors "github.com/noah-isme/cadet-admin-api/pkg/errors"
)

const (
	defaultRateDays = 30
	topRankingSize  = 5
)

// Letter grades from best to worst.
var letterGrades = []string{"A", "B", "C", "D", "F"}

type statsRepository interface {
	CountStudents(ctx context.Context) (int, error)
	CountClasses(ctx context.Context) (int, error)
	CountAttendance(ctx context.Context, from, until time.Time) (models.AttendanceCount, error)
	SquadronDistribution(ctx context.Context) ([]models.SquadronCount, error)
	YearDistribution(ctx context.Context) ([]models.YearCount, error)
	RankDistribution(ctx context.Context) ([]models.RankCount, error)
	InstructorDistribution(ctx context.Context) ([]models.InstructorCount, error)
	TopStudentsByAttendance(ctx context.Context, limit int) ([]models.StudentAttendanceRank, error)
	TopClassesByAttendance(ctx context.Context, limit int) ([]models.ClassAttendanceRank, error)
	GradeTotals(ctx context.Context) (models.GradeSummary, error)
	PercentageCounts(ctx context.Context) ([]models.PercentageCount, error)
	TopStudentsByGrade(ctx context.Context, limit int) ([]models.StudentGradeAverage, error)
}

// StatsService derives read-only statistics from the attendance, grade and roster tables.
type StatsService struct {
	repo     statsRepository
	cache    *CacheService
	metrics  *MetricsService
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewStatsService constructs the statistics service.
func NewStatsService(repo statsRepository, cache *CacheService, metrics *MetricsService, cacheTTL time.Duration, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{repo: repo, cache: cache, metrics: metrics, cacheTTL: cacheTTL, logger: logger, now: time.Now}
}

// AttendanceRate compares the attendance rate of the last days days with the
// window of equal length before it. The bool reports a cache hit.
func (s *StatsService) AttendanceRate(ctx context.Context, days int) (*dto.AttendanceRateResponse, bool, error) {
	if days <= 0 {
		days = defaultRateDays
	}
	today := dateOnly(s.now())
	key := fmt.Sprintf(statsKeyAttendanceRateF, days, today.Format(DateLayout))

	var cached dto.AttendanceRateResponse
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	currentFrom := today.AddDate(0, 0, -days)
	previousFrom := today.AddDate(0, 0, -2*days)

	var current, previous models.AttendanceCount
	err := s.timed("attendance_rate", func() error {
		var err error
		if current, err = s.repo.CountAttendance(ctx, currentFrom, today.AddDate(0, 0, 1)); err != nil {
			return err
		}
		previous, err = s.repo.CountAttendance(ctx, previousFrom, currentFrom)
		return err
	})
	if err != nil {
		return nil, false, appErrors.Internal(err, "failed to calculate attendance rate")
	}

	rate, change := AttendanceTrend(current, previous)
	resp := &dto.AttendanceRateResponse{
		Days:         days,
		Rate:         rate,
		Change:       change,
		PresentCount: current.Present,
		TotalCount:   current.Total,
	}
	s.cache.Set(ctx, key, resp, s.cacheTTL)
	return resp, false, nil
}

// StudentStats summarises the roster. The bool reports a cache hit.
func (s *StatsService) StudentStats(ctx context.Context) (*dto.StudentStatsResponse, bool, error) {
	var cached dto.StudentStatsResponse
	if s.cache.Get(ctx, statsKeyStudents, &cached) {
		return &cached, true, nil
	}

	resp := &dto.StudentStatsResponse{}
	err := s.timed("student_stats", func() error {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) { resp.Total, err = s.repo.CountStudents(gctx); return })
		g.Go(func() (err error) { resp.Squadrons, err = s.repo.SquadronDistribution(gctx); return })
		g.Go(func() (err error) { resp.Years, err = s.repo.YearDistribution(gctx); return })
		g.Go(func() (err error) { resp.Ranks, err = s.repo.RankDistribution(gctx); return })
		g.Go(func() (err error) {
			resp.TopAttendance, err = s.repo.TopStudentsByAttendance(gctx, topRankingSize)
			return
		})
		return g.Wait()
	})
	if err != nil {
		return nil, false, appErrors.Internal(err, "failed to fetch student statistics")
	}
	for i := range resp.TopAttendance {
		resp.TopAttendance[i].Rate = PercentRate(resp.TopAttendance[i].PresentCount, resp.TopAttendance[i].TotalCount)
	}

	s.cache.Set(ctx, statsKeyStudents, resp, s.cacheTTL)
	return resp, false, nil
}

// ClassStats summarises the class catalogue. The bool reports a cache hit.
func (s *StatsService) ClassStats(ctx context.Context) (*dto.ClassStatsResponse, bool, error) {
	var cached dto.ClassStatsResponse
	if s.cache.Get(ctx, statsKeyClasses, &cached) {
		return &cached, true, nil
	}

	resp := &dto.ClassStatsResponse{}
	err := s.timed("class_stats", func() error {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) { resp.Total, err = s.repo.CountClasses(gctx); return })
		g.Go(func() (err error) {
			resp.TopAttendance, err = s.repo.TopClassesByAttendance(gctx, topRankingSize)
			return
		})
		g.Go(func() (err error) { resp.Instructors, err = s.repo.InstructorDistribution(gctx); return })
		return g.Wait()
	})
	if err != nil {
		return nil, false, appErrors.Internal(err, "failed to fetch class statistics")
	}
	for i := range resp.TopAttendance {
		resp.TopAttendance[i].Rate = PercentRate(resp.TopAttendance[i].PresentCount, resp.TopAttendance[i].TotalCount)
	}

	s.cache.Set(ctx, statsKeyClasses, resp, s.cacheTTL)
	return resp, false, nil
}

// GradeStats summarises every recorded grade. The bool reports a cache hit.
func (s *StatsService) GradeStats(ctx context.Context) (*dto.GradeStatsResponse, bool, error) {
	var cached dto.GradeStatsResponse
	if s.cache.Get(ctx, statsKeyGrades, &cached) {
		return &cached, true, nil
	}

	var (
		totals  models.GradeSummary
		counts  []models.PercentageCount
		leaders []models.StudentGradeAverage
	)
	err := s.timed("grade_stats", func() error {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) { totals, err = s.repo.GradeTotals(gctx); return })
		g.Go(func() (err error) { counts, err = s.repo.PercentageCounts(gctx); return })
		g.Go(func() (err error) { leaders, err = s.repo.TopStudentsByGrade(gctx, topRankingSize); return })
		return g.Wait()
	})
	if err != nil {
		return nil, false, appErrors.Internal(err, "failed to fetch grade statistics")
	}

	top := make([]dto.TopStudent, 0, len(leaders))
	for _, leader := range leaders {
		top = append(top, dto.TopStudent{
			ID:               leader.ID,
			Name:             leader.Name,
			AverageGrade:     roundInt(leader.AverageGrade),
			AssignmentsCount: leader.AssignmentsCount,
		})
	}
	resp := &dto.GradeStatsResponse{
		Total:        totals.TotalAssignments,
		Average:      roundInt(totals.AveragePercentage),
		Distribution: GradeDistribution(counts),
		TopStudents:  top,
	}

	s.cache.Set(ctx, statsKeyGrades, resp, s.cacheTTL)
	return resp, false, nil
}

func (s *StatsService) timed(label string, fn func() error) error {
	start := time.Now()
	err := fn()
	s.metrics.ObserveDBQuery(label, time.Since(start))
	if err != nil {
		s.logger.Warn("statistics query failed", zap.String("query", label), zap.Error(err))
	}
	return err
}

// PercentRate returns present/total as a whole percentage, 0 when total is 0.
func PercentRate(present, total int) int {
	if total <= 0 {
		return 0
	}
	return roundInt(float64(present) / float64(total) * 100)
}

// AttendanceTrend returns the current rate and its change against the previous
// window, both as percentages with one decimal.
func AttendanceTrend(current, previous models.AttendanceCount) (rate, change float64) {
	cur := ratio(current)
	prev := ratio(previous)
	return roundOneDecimal(cur), roundOneDecimal(cur - prev)
}

// LetterGrade buckets a percentage: A from 90, B from 80, C from 70, D from 60, otherwise F.
func LetterGrade(percentage float64) string {
	switch {
	case percentage >= 90:
		return "A"
	case percentage >= 80:
		return "B"
	case percentage >= 70:
		return "C"
	case percentage >= 60:
		return "D"
	default:
		return "F"
	}
}

// GradeDistribution folds percentage counts into the five letter buckets, A first.
func GradeDistribution(counts []models.PercentageCount) []models.GradeBucket {
	totals := make(map[string]int, len(letterGrades))
	for _, c := range counts {
		totals[LetterGrade(c.Percentage)] += c.Count
	}
	buckets := make([]models.GradeBucket, 0, len(letterGrades))
	for _, letter := range letterGrades {
		buckets = append(buckets, models.GradeBucket{Letter: letter, Count: totals[letter]})
	}
	return buckets
}

func ratio(c models.AttendanceCount) float64 {
	if c.Total <= 0 {
		return 0
	}
	return float64(c.Present) / float64(c.Total) * 100
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
