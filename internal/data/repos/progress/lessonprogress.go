package progress

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lumalingo/lumalingo-backend/internal/domain"
	"github.com/lumalingo/lumalingo-backend/internal/pkg/logger"
)

type LessonProgressRepo interface {
	// GetForUpdate loads the (user, lesson) row under a FOR UPDATE lock so
	// concurrent attempt submissions serialize per key. Returns nil when no
	// record exists yet.
	GetForUpdate(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID) (*domain.LessonProgress, error)
	Upsert(ctx context.Context, tx *gorm.DB, p *domain.LessonProgress) error
	GetByUserAndLesson(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID) (*domain.LessonProgress, error)
	GetByUserAndLessonIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, lessonIDs []uuid.UUID) ([]*domain.LessonProgress, error)
	// CountCompletedInCourse counts the user's lessons with a completed_at
	// in the given course, scoping through the level->lesson chain.
	CountCompletedInCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (int64, error)
}

type lessonProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonProgressRepo(db *gorm.DB, baseLog *logger.Logger) LessonProgressRepo {
	return &lessonProgressRepo{db: db, log: baseLog.With("repo", "LessonProgressRepo")}
}

func (r *lessonProgressRepo) GetForUpdate(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID) (*domain.LessonProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var p domain.LessonProgress
	err := transaction.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *lessonProgressRepo) Upsert(ctx context.Context, tx *gorm.DB, p *domain.LessonProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"accuracy",
				"game_score",
				"correct_answers",
				"total_questions",
				"completed_at",
				"updated_at",
			}),
		}).
		Create(p).Error
}

func (r *lessonProgressRepo) GetByUserAndLesson(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID) (*domain.LessonProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var p domain.LessonProgress
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *lessonProgressRepo) GetByUserAndLessonIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, lessonIDs []uuid.UUID) ([]*domain.LessonProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*domain.LessonProgress
	if len(lessonIDs) == 0 {
		return results, nil
	}
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonProgressRepo) CountCompletedInCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&domain.LessonProgress{}).
		Joins("JOIN lessons ON lessons.id = lesson_progress.lesson_id").
		Joins("JOIN levels ON levels.id = lessons.level_id").
		Where("lesson_progress.user_id = ?", userID).
		Where("levels.course_id = ?", courseID).
		Where("lesson_progress.completed_at IS NOT NULL").
		Count(&count).Error
	return count, err
}
