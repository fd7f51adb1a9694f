package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumalingo/lumalingo-backend/internal/domain"
	"github.com/lumalingo/lumalingo-backend/internal/pkg/logger"
)

type ImageRepo interface {
	// EligibleForLesson returns every image a lesson may draw questions
	// from: all images of earlier levels in the course, plus the lesson's
	// own level up to and including the lesson's day. Subcategories are
	// preloaded for the pairing validator.
	EligibleForLesson(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, levelOrder, lessonDay int) ([]*domain.Image, error)
}

type imageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewImageRepo(db *gorm.DB, baseLog *logger.Logger) ImageRepo {
	return &imageRepo{db: db, log: baseLog.With("repo", "ImageRepo")}
}

func (r *imageRepo) EligibleForLesson(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, levelOrder, lessonDay int) ([]*domain.Image, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var images []*domain.Image
	err := transaction.WithContext(ctx).
		Preload("Subcategories").
		Joins("JOIN levels ON levels.id = images.level_id").
		Where("levels.course_id = ?", courseID).
		Where("levels.position < ? OR (levels.position = ? AND images.dia <= ?)",
			levelOrder, levelOrder, lessonDay).
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}
