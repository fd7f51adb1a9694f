package app

import (
	"github.com/gin-gonic/gin"

	apphttp "github.com/lumalingo/lumalingo-backend/internal/http"
	"github.com/lumalingo/lumalingo-backend/internal/pkg/logger"
)

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, mw Middleware) *gin.Engine {
	return apphttp.NewRouter(apphttp.RouterConfig{
		Log:                  log,
		AuthMiddleware:       mw.Auth,
		EnrollmentMiddleware: mw.Enrollment,
		HealthHandler:        handlers.Health,
		AuthHandler:          handlers.Auth,
		GameHandler:          handlers.Game,
		EnrollmentHandler:    handlers.Enrollment,
		TuitionFeeHandler:    handlers.TuitionFee,
		BadgeHandler:         handlers.Badge,
		CORSOrigins:          cfg.CORSOrigins,
	})
}
