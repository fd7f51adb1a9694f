package progress

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lumalingo/lumalingo-backend/internal/domain"
	"github.com/lumalingo/lumalingo-backend/internal/pkg/logger"
)

type BadgeRepo interface {
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*domain.Badge, error)
	// ListUnheldReached returns the course's badges whose threshold the
	// completed-lesson count reaches and which the user does not hold yet.
	ListUnheldReached(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID, completedLessons int64) ([]*domain.Badge, error)
	// Grant inserts the (user, badge) row; the unique index absorbs
	// concurrent duplicates. Reports whether this call actually inserted.
	Grant(ctx context.Context, tx *gorm.DB, userID, badgeID uuid.UUID, earnedAt time.Time) (bool, error)
	ListUserBadges(ctx context.Context, tx *gorm.DB, userID uuid.UUID, courseID *uuid.UUID) ([]*UserBadgeRow, error)
}

// UserBadgeRow is a badge joined with its grant time for listing endpoints.
type UserBadgeRow struct {
	domain.Badge
	EarnedAt time.Time `json:"earned_at"`
}

type badgeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBadgeRepo(db *gorm.DB, baseLog *logger.Logger) BadgeRepo {
	return &badgeRepo{db: db, log: baseLog.With("repo", "BadgeRepo")}
}

func (r *badgeRepo) ListByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*domain.Badge, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var badges []*domain.Badge
	err := transaction.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("lessons_required ASC").
		Find(&badges).Error
	if err != nil {
		return nil, err
	}
	return badges, nil
}

func (r *badgeRepo) ListUnheldReached(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID, completedLessons int64) ([]*domain.Badge, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var badges []*domain.Badge
	err := transaction.WithContext(ctx).
		Where("course_id = ?", courseID).
		Where("lessons_required <= ?", completedLessons).
		Where("id NOT IN (?)",
			transaction.Model(&domain.UserBadge{}).
				Select("badge_id").
				Where("user_id = ?", userID)).
		Order("lessons_required ASC").
		Find(&badges).Error
	if err != nil {
		return nil, err
	}
	return badges, nil
}

func (r *badgeRepo) Grant(ctx context.Context, tx *gorm.DB, userID, badgeID uuid.UUID, earnedAt time.Time) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	row := &domain.UserBadge{
		ID:       uuid.New(),
		UserID:   userID,
		BadgeID:  badgeID,
		EarnedAt: earnedAt,
	}
	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *badgeRepo) ListUserBadges(ctx context.Context, tx *gorm.DB, userID uuid.UUID, courseID *uuid.UUID) ([]*UserBadgeRow, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Model(&domain.Badge{}).
		Select("badges.*, user_badges.earned_at").
		Joins("JOIN user_badges ON user_badges.badge_id = badges.id").
		Where("user_badges.user_id = ?", userID).
		Order("user_badges.earned_at DESC")
	if courseID != nil {
		q = q.Where("badges.course_id = ?", *courseID)
	}
	var rows []*UserBadgeRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
