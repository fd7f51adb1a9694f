package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/lumalingo/lumalingo-backend/internal/http/handlers"
	httpMW "github.com/lumalingo/lumalingo-backend/internal/http/middleware"
	"github.com/lumalingo/lumalingo-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthMiddleware       *httpMW.AuthMiddleware
	EnrollmentMiddleware *httpMW.EnrollmentMiddleware

	HealthHandler     *httpH.HealthHandler
	AuthHandler       *httpH.AuthHandler
	GameHandler       *httpH.GameHandler
	EnrollmentHandler *httpH.EnrollmentHandler
	TuitionFeeHandler *httpH.TuitionFeeHandler
	BadgeHandler      *httpH.BadgeHandler

	CORSOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	r.GET("/healthz", cfg.HealthHandler.HealthCheck)

	api := r.Group("/api")

	// Public
	api.POST("/login", cfg.AuthHandler.Login)

	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		protected.GET("/user", cfg.AuthHandler.CurrentUser)

		// Game flow; the question and result routes sit behind the
		// enrollment gate.
		gated := protected.Group("/")
		gated.Use(cfg.EnrollmentMiddleware.RequireEnrollment())
		{
			gated.GET("/lessons/:id/questions", cfg.GameHandler.GetQuestions)
			gated.POST("/lessons/:id/result", cfg.GameHandler.SubmitResult)
		}
		protected.GET("/lessons/:id/progress", cfg.GameHandler.GetProgress)
		protected.POST("/lessons/batch/progress", cfg.GameHandler.BatchProgress)

		// Self-service listings
		protected.GET("/my-enrollments", cfg.EnrollmentHandler.MyEnrollments)
		protected.GET("/courses/:id/progress", cfg.EnrollmentHandler.CourseProgress)
		protected.GET("/courses/:id/badges", cfg.BadgeHandler.CourseBadges)
		protected.GET("/my-badges", cfg.BadgeHandler.MyBadges)
		protected.GET("/my-fees", cfg.TuitionFeeHandler.MyFees)
		protected.GET("/my-fees/outstanding", cfg.TuitionFeeHandler.MyOutstandingFees)
	}

	admin := protected.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireAdmin())
	{
		admin.POST("/enrollments", cfg.EnrollmentHandler.Enroll)
		admin.GET("/enrollments", cfg.EnrollmentHandler.List)
		admin.PATCH("/enrollments/:id/status", cfg.EnrollmentHandler.UpdateStatus)
		admin.DELETE("/enrollments/:id", cfg.EnrollmentHandler.Unenroll)

		admin.GET("/tuition-fees", cfg.TuitionFeeHandler.List)
		admin.POST("/tuition-fees", cfg.TuitionFeeHandler.Create)
		admin.PATCH("/tuition-fees/:id", cfg.TuitionFeeHandler.Update)
		admin.DELETE("/tuition-fees/:id", cfg.TuitionFeeHandler.Delete)
		admin.POST("/tuition-fees/:id/pay", cfg.TuitionFeeHandler.MarkPaid)
		admin.GET("/tuition-fees/statistics", cfg.TuitionFeeHandler.Statistics)
	}

	return r
}
