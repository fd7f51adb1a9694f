package app

import (
	"gorm.io/gorm"

	"github.com/lumalingo/lumalingo-backend/internal/pkg/logger"
	"github.com/lumalingo/lumalingo-backend/internal/services"
)

type Services struct {
	Auth     services.AuthService
	Quiz     services.QuizService
	Badge    services.BadgeService
	Progress services.ProgressService
	Billing  services.BillingService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos) Services {
	log.Info("wiring services")

	badge := services.NewBadgeService(log, repos.Badge, repos.LessonProgress)
	return Services{
		Auth:  services.NewAuthService(log, repos.User, cfg.JWTSecretKey, cfg.TokenTTL),
		Quiz:  services.NewQuizService(log, repos.Lesson, repos.Image),
		Badge: badge,
		Progress: services.NewProgressService(
			db, log, repos.LessonProgress, repos.Lesson, repos.Course, badge, cfg.PassThreshold),
		Billing: services.NewBillingService(db, log, repos.Enrollment, repos.TuitionFee, repos.Course),
	}
}
