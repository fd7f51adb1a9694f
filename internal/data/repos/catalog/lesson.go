package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumalingo/lumalingo-backend/internal/domain"
	"github.com/lumalingo/lumalingo-backend/internal/pkg/logger"
)

type LessonRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Lesson, error)
	// GetContext resolves the lesson together with its level and owning
	// course in one round trip; the game flow needs all three.
	GetContext(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Lesson, *domain.Level, *domain.Course, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return &lessonRepo{db: db, log: baseLog.With("repo", "LessonRepo")}
}

func (r *lessonRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var lesson domain.Lesson
	if err := transaction.WithContext(ctx).First(&lesson, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *lessonRepo) GetContext(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Lesson, *domain.Level, *domain.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var lesson domain.Lesson
	if err := transaction.WithContext(ctx).First(&lesson, "id = ?", id).Error; err != nil {
		return nil, nil, nil, err
	}
	var level domain.Level
	if err := transaction.WithContext(ctx).First(&level, "id = ?", lesson.LevelID).Error; err != nil {
		return nil, nil, nil, err
	}
	var course domain.Course
	if err := transaction.WithContext(ctx).First(&course, "id = ?", level.CourseID).Error; err != nil {
		return nil, nil, nil, err
	}
	return &lesson, &level, &course, nil
}
