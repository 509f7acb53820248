package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/cadet-admin-api/internal/handler"
	"github.com/noah-isme/cadet-admin-api/internal/middleware"
	"github.com/noah-isme/cadet-admin-api/internal/service"
	"github.com/noah-isme/cadet-admin-api/pkg/config"
	"github.com/noah-isme/cadet-admin-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/cadet-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/cadet-admin-api/pkg/middleware/requestid"
)

const metricsPath = "/metrics"

// Handlers groups every HTTP handler mounted by Setup. Export may be nil when
// downloads are disabled.
type Handlers struct {
	Students    *handler.StudentHandler
	Classes     *handler.ClassHandler
	Schedule    *handler.ScheduleHandler
	Attendance  *handler.AttendanceHandler
	Assignments *handler.AssignmentHandler
	Grades      *handler.GradeHandler
	Stats       *handler.StatsHandler
	Dashboard   *handler.DashboardHandler
	Export      *handler.ExportHandler
	System      *handler.SystemHandler
}

// Setup builds the Gin engine.
func Setup(cfg *config.Config, h Handlers, metrics *service.MetricsService, log *zap.Logger) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metrics, metricsPath))
	}

	r.GET("/health", h.System.Health)
	r.GET("/ready", h.System.Ready)
	if cfg.Metrics.Enabled {
		r.GET(metricsPath, h.System.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.Timeout(cfg.Database.AcquireTimeout))
	api.Use(middleware.Audit(log))
	{
		students := api.Group("/students")
		{
			students.GET("", h.Students.List)
			students.POST("", h.Students.Create)
			students.GET("/stats", h.Stats.Students)
			students.GET("/:id", h.Students.Get)
			students.PUT("/:id", h.Students.Update)
			students.DELETE("/:id", h.Students.Delete)
			students.GET("/:id/attendance", h.Students.Attendance)
			students.GET("/:id/grades", h.Students.Grades)
		}

		classes := api.Group("/classes")
		{
			classes.GET("", h.Classes.List)
			classes.POST("", h.Classes.Create)
			classes.GET("/stats", h.Stats.Classes)
			classes.GET("/:id", h.Classes.Get)
			classes.PUT("/:id", h.Classes.Update)
			classes.DELETE("/:id", h.Classes.Delete)
			classes.GET("/:id/students", h.Classes.Students)
		}

		schedule := api.Group("/class-schedule")
		{
			schedule.GET("", h.Schedule.List)
			schedule.POST("", h.Schedule.Create)
			schedule.GET("/:id", h.Schedule.Get)
			schedule.PUT("/:id", h.Schedule.Update)
			schedule.DELETE("/:id", h.Schedule.Delete)
		}

		api.GET("/attendance", h.Attendance.List)
		api.POST("/attendance", h.Attendance.Record)
		api.GET("/absences", h.Attendance.Absences)
		api.GET("/attendance-rate", h.Stats.AttendanceRate)

		assignments := api.Group("/assignments")
		{
			assignments.GET("", h.Assignments.List)
			assignments.POST("", h.Assignments.Create)
			assignments.GET("/:id", h.Assignments.Get)
			assignments.PUT("/:id", h.Assignments.Update)
			assignments.DELETE("/:id", h.Assignments.Delete)
		}

		grades := api.Group("/grades")
		{
			grades.GET("", h.Grades.List)
			grades.POST("", h.Grades.Save)
			grades.GET("/stats", h.Stats.Grades)
			grades.GET("/:id", h.Grades.Get)
			grades.PUT("/:id", h.Grades.Update)
			grades.DELETE("/:id", h.Grades.Delete)
		}

		api.GET("/dashboard", h.Dashboard.Summary)

		if cfg.Exports.Enabled && h.Export != nil {
			api.GET("/exports/:resource", h.Export.Download)
		}
	}

	return r
}
