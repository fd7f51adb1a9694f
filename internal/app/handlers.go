package app

import (
	"github.com/lumalingo/lumalingo-backend/internal/http/handlers"
	"github.com/lumalingo/lumalingo-backend/internal/pkg/logger"
)

type Handlers struct {
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	Game       *handlers.GameHandler
	Enrollment *handlers.EnrollmentHandler
	TuitionFee *handlers.TuitionFeeHandler
	Badge      *handlers.BadgeHandler
}

func wireHandlers(log *logger.Logger, svcs Services) Handlers {
	log.Info("wiring handlers")
	return Handlers{
		Health:     handlers.NewHealthHandler(),
		Auth:       handlers.NewAuthHandler(svcs.Auth),
		Game:       handlers.NewGameHandler(svcs.Quiz, svcs.Progress),
		Enrollment: handlers.NewEnrollmentHandler(svcs.Billing, svcs.Progress),
		TuitionFee: handlers.NewTuitionFeeHandler(svcs.Billing),
		Badge:      handlers.NewBadgeHandler(svcs.Badge),
	}
}
