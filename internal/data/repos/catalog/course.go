package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumalingo/lumalingo-backend/internal/domain"
	"github.com/lumalingo/lumalingo-backend/internal/pkg/logger"
)

// The catalog repos are the read-only window onto authored content. Nothing
// in this service mutates catalog rows.

type CourseRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Course, error)
	LessonCount(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int64, error)
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func (r *courseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var course domain.Course
	if err := transaction.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) LessonCount(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&domain.Lesson{}).
		Joins("JOIN levels ON levels.id = lessons.level_id").
		Where("levels.course_id = ?", courseID).
		Count(&count).Error
	return count, err
}
