package app

import (
	"github.com/lumalingo/lumalingo-backend/internal/http/middleware"
	"github.com/lumalingo/lumalingo-backend/internal/pkg/logger"
)

type Middleware struct {
	Auth       *middleware.AuthMiddleware
	Enrollment *middleware.EnrollmentMiddleware
}

func wireMiddleware(log *logger.Logger, repos Repos, svcs Services) Middleware {
	log.Info("wiring middleware")
	return Middleware{
		Auth:       middleware.NewAuthMiddleware(log, svcs.Auth),
		Enrollment: middleware.NewEnrollmentMiddleware(log, repos.Lesson, svcs.Billing),
	}
}
