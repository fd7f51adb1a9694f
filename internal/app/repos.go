package app

import (
	"gorm.io/gorm"

	"github.com/lumalingo/lumalingo-backend/internal/data/repos/billing"
	"github.com/lumalingo/lumalingo-backend/internal/data/repos/catalog"
	"github.com/lumalingo/lumalingo-backend/internal/data/repos/progress"
	"github.com/lumalingo/lumalingo-backend/internal/data/repos/user"
	"github.com/lumalingo/lumalingo-backend/internal/pkg/logger"
)

type Repos struct {
	User           user.UserRepo
	Course         catalog.CourseRepo
	Lesson         catalog.LessonRepo
	Image          catalog.ImageRepo
	LessonProgress progress.LessonProgressRepo
	Badge          progress.BadgeRepo
	Enrollment     billing.EnrollmentRepo
	TuitionFee     billing.TuitionFeeRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("wiring repos")
	return Repos{
		User:           user.NewUserRepo(db, log),
		Course:         catalog.NewCourseRepo(db, log),
		Lesson:         catalog.NewLessonRepo(db, log),
		Image:          catalog.NewImageRepo(db, log),
		LessonProgress: progress.NewLessonProgressRepo(db, log),
		Badge:          progress.NewBadgeRepo(db, log),
		Enrollment:     billing.NewEnrollmentRepo(db, log),
		TuitionFee:     billing.NewTuitionFeeRepo(db, log),
	}
}
