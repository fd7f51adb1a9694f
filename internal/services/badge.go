package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumalingo/lumalingo-backend/internal/data/repos/progress"
	"github.com/lumalingo/lumalingo-backend/internal/domain"
	"github.com/lumalingo/lumalingo-backend/internal/pkg/logger"
)

type BadgeService interface {
	// CheckAndAward grants every badge of the course whose completed-lesson
	// threshold the user has reached and does not hold yet, and returns the
	// badges granted by this call. Safe under concurrent submissions: the
	// unique (user, badge) index absorbs double-awards.
	CheckAndAward(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) ([]*domain.Badge, error)
	ListCourseBadges(ctx context.Context, courseID uuid.UUID) ([]*domain.Badge, error)
	ListUserBadges(ctx context.Context, userID uuid.UUID, courseID *uuid.UUID) ([]*progress.UserBadgeRow, error)
}

type badgeService struct {
	log          *logger.Logger
	badgeRepo    progress.BadgeRepo
	progressRepo progress.LessonProgressRepo
	now          func() time.Time
}

func NewBadgeService(log *logger.Logger, badgeRepo progress.BadgeRepo, progressRepo progress.LessonProgressRepo) BadgeService {
	return &badgeService{
		log:          log.With("service", "BadgeService"),
		badgeRepo:    badgeRepo,
		progressRepo: progressRepo,
		now:          time.Now,
	}
}

func (s *badgeService) CheckAndAward(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) ([]*domain.Badge, error) {
	completed, err := s.progressRepo.CountCompletedInCourse(ctx, tx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("count completed lessons: %w", err)
	}

	candidates, err := s.badgeRepo.ListUnheldReached(ctx, tx, userID, courseID, completed)
	if err != nil {
		return nil, fmt.Errorf("list eligible badges: %w", err)
	}

	var awarded []*domain.Badge
	for _, badge := range candidates {
		granted, err := s.badgeRepo.Grant(ctx, tx, userID, badge.ID, s.now())
		if err != nil {
			return nil, fmt.Errorf("grant badge %s: %w", badge.ID, err)
		}
		if granted {
			s.log.Info("badge awarded",
				"user_id", userID,
				"badge_id", badge.ID,
				"badge_name", badge.Name,
				"completed_lessons", completed)
			awarded = append(awarded, badge)
		}
	}
	return awarded, nil
}

func (s *badgeService) ListCourseBadges(ctx context.Context, courseID uuid.UUID) ([]*domain.Badge, error) {
	return s.badgeRepo.ListByCourse(ctx, nil, courseID)
}

func (s *badgeService) ListUserBadges(ctx context.Context, userID uuid.UUID, courseID *uuid.UUID) ([]*progress.UserBadgeRow, error) {
	return s.badgeRepo.ListUserBadges(ctx, nil, userID, courseID)
}
