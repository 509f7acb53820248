package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/noah-isme/cadet-admin-api/api/swagger"
	"github.com/noah-isme/cadet-admin-api/internal/handler"
	"github.com/noah-isme/cadet-admin-api/internal/repository"
	"github.com/noah-isme/cadet-admin-api/internal/router"
	"github.com/noah-isme/cadet-admin-api/internal/service"
	"github.com/noah-isme/cadet-admin-api/pkg/cache"
	"github.com/noah-isme/cadet-admin-api/pkg/config"
	"github.com/noah-isme/cadet-admin-api/pkg/database"
	"github.com/noah-isme/cadet-admin-api/pkg/logger"
)

// @title Cadet Admin API
// @version 1.0.0
// @description Administrative back end for cadet students, classes, schedules, attendance, assignments and grades
// @BasePath /api
// @schemes http

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheRepo *repository.CacheRepository
	var cacheBackend service.CacheRepository
	if cfg.Stats.CacheEnabled {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.AcquireTimeout)
		client, err := cache.NewRedis(ctx, cfg.Redis)
		cancel()
		if err != nil {
			logr.Warn("redis unavailable, stats cache disabled", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(client, logr)
			cacheBackend = cacheRepo
			defer cacheRepo.Close() //nolint:errcheck
		}
	}
	cacheSvc := service.NewCacheService(cacheBackend, metricsSvc, cfg.Stats.CacheTTL, logr, cacheBackend != nil)

	studentRepo := repository.NewStudentRepository(db)
	classRepo := repository.NewClassRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	validate := service.NewValidator()
	studentSvc := service.NewStudentService(studentRepo, attendanceRepo, gradeRepo, cacheSvc, validate, logr)
	classSvc := service.NewClassService(classRepo, scheduleRepo, attendanceRepo, cacheSvc, validate, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, attendanceRepo, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, cacheSvc, validate, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, validate, logr)
	gradeSvc := service.NewGradeService(gradeRepo, studentRepo, assignmentRepo, cacheSvc, validate, logr)
	statsSvc := service.NewStatsService(statsRepo, cacheSvc, metricsSvc, cfg.Stats.CacheTTL, logr)
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Counts:        statsRepo,
		Schedule:      scheduleSvc,
		Absences:      attendanceSvc,
		Assignments:   assignmentSvc,
		Grades:        gradeSvc,
		Rates:         statsSvc,
		Metrics:       metricsSvc,
		Logger:        logr,
		WidgetTimeout: cfg.Dashboard.WidgetTimeout,
	})

	checks := map[string]handler.Pinger{"postgres": db}
	if cacheRepo != nil {
		checks["redis"] = handler.PingFunc(cacheRepo.Ping)
	}

	handlers := router.Handlers{
		Students:    handler.NewStudentHandler(studentSvc),
		Classes:     handler.NewClassHandler(classSvc),
		Schedule:    handler.NewScheduleHandler(scheduleSvc),
		Attendance:  handler.NewAttendanceHandler(attendanceSvc),
		Assignments: handler.NewAssignmentHandler(assignmentSvc),
		Grades:      handler.NewGradeHandler(gradeSvc),
		Stats:       handler.NewStatsHandler(statsSvc),
		Dashboard:   handler.NewDashboardHandler(dashboardSvc),
		System:      handler.NewSystemHandler(metricsSvc, checks),
	}
	if cfg.Exports.Enabled {
		exportSvc := service.NewExportService(repository.NewExportRepository(db), cfg.Exports.RowLimit, logr, nil, nil)
		handlers.Export = handler.NewExportHandler(exportSvc)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router.Setup(cfg, handlers, metricsSvc, logr),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("server forced to shutdown", zap.Error(err))
	}
	logr.Info("server exited")
}
