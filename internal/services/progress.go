package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumalingo/lumalingo-backend/internal/data/repos/catalog"
	progressrepo "github.com/lumalingo/lumalingo-backend/internal/data/repos/progress"
	"github.com/lumalingo/lumalingo-backend/internal/domain"
	"github.com/lumalingo/lumalingo-backend/internal/game"
	"github.com/lumalingo/lumalingo-backend/internal/pkg/logger"
)

// DefaultPassThreshold is the minimum accuracy for a lesson to count as
// completed.
const DefaultPassThreshold = 75

// Attempt is one normalized game submission.
type Attempt struct {
	Accuracy       int
	GameScore      int
	CorrectAnswers int
	TotalQuestions int
}

// ReconciliationResult reports the outcome of merging one attempt into the
// stored best record.
type ReconciliationResult struct {
	LessonID  uuid.UUID `json:"lesson_id"`
	Completed bool      `json:"completed"`
	Passed    bool      `json:"passed"`
	Improved  bool      `json:"improved"`
	// WasAlreadyCompleted is true when the lesson had a completed_at before
	// this attempt; badges are only checked on the first completion.
	WasAlreadyCompleted bool `json:"was_already_completed"`

	Accuracy       int `json:"accuracy"`
	GameScore      int `json:"game_score"`
	CorrectAnswers int `json:"correct_answers"`
	TotalQuestions int `json:"total_questions"`

	AttemptAccuracy  int `json:"attempt_accuracy"`
	AttemptGameScore int `json:"attempt_game_score"`

	NewBadges []*domain.Badge `json:"new_badges"`
	Message   string          `json:"message"`
}

type ProgressService interface {
	// RecordAttempt merges one game submission into the user's stored best
	// record for the lesson, serialized per (user, lesson) with a row lock.
	RecordAttempt(ctx context.Context, userID, lessonID uuid.UUID, correctAnswers, totalQuestions int, gameScore *int) (*ReconciliationResult, error)
	GetProgress(ctx context.Context, userID, lessonID uuid.UUID) (*domain.LessonProgress, error)
	// BatchProgress returns the user's progress rows for the given lessons;
	// lessons without a row are simply absent from the result map.
	BatchProgress(ctx context.Context, userID uuid.UUID, lessonIDs []uuid.UUID) (map[uuid.UUID]*domain.LessonProgress, error)
	// CourseProgress reports completed/total lesson counts for one course.
	CourseProgress(ctx context.Context, userID, courseID uuid.UUID) (completed, total int64, err error)
}

type progressService struct {
	db            *gorm.DB
	log           *logger.Logger
	progressRepo  progressrepo.LessonProgressRepo
	lessonRepo    catalog.LessonRepo
	courseRepo    catalog.CourseRepo
	badgeService  BadgeService
	passThreshold int
	now           func() time.Time
}

func NewProgressService(
	db *gorm.DB,
	log *logger.Logger,
	progressRepo progressrepo.LessonProgressRepo,
	lessonRepo catalog.LessonRepo,
	courseRepo catalog.CourseRepo,
	badgeService BadgeService,
	passThreshold int,
) ProgressService {
	if passThreshold <= 0 {
		passThreshold = DefaultPassThreshold
	}
	return &progressService{
		db:            db,
		log:           log.With("service", "ProgressService"),
		progressRepo:  progressRepo,
		lessonRepo:    lessonRepo,
		courseRepo:    courseRepo,
		badgeService:  badgeService,
		passThreshold: passThreshold,
		now:           time.Now,
	}
}

// AccuracyFor converts raw answer counts into a 0-100 percentage, rounded
// half away from zero.
func AccuracyFor(correctAnswers, totalQuestions int) int {
	if totalQuestions <= 0 {
		return 0
	}
	return int(math.Round(float64(correctAnswers) * 100 / float64(totalQuestions)))
}

// MergeAttempt folds one attempt into the previous best record. The accuracy
// triple (accuracy, correct, total) moves together and only when accuracy
// strictly improves; game score improves independently; completed_at is set
// on the first pass and never changes afterwards. prev may be nil.
func MergeAttempt(prev *domain.LessonProgress, attempt Attempt, passed bool, now time.Time) (merged domain.LessonProgress, improved bool) {
	if prev == nil {
		merged = domain.LessonProgress{
			Accuracy:       attempt.Accuracy,
			GameScore:      attempt.GameScore,
			CorrectAnswers: attempt.CorrectAnswers,
			TotalQuestions: attempt.TotalQuestions,
		}
		if passed {
			completedAt := now
			merged.CompletedAt = &completedAt
		}
		return merged, true
	}

	merged = *prev
	if attempt.Accuracy > merged.Accuracy {
		merged.Accuracy = attempt.Accuracy
		merged.CorrectAnswers = attempt.CorrectAnswers
		merged.TotalQuestions = attempt.TotalQuestions
		improved = true
	}
	if attempt.GameScore > merged.GameScore {
		merged.GameScore = attempt.GameScore
		improved = true
	}
	if passed && merged.CompletedAt == nil {
		completedAt := now
		merged.CompletedAt = &completedAt
		improved = true
	}
	return merged, improved
}

func (s *progressService) RecordAttempt(ctx context.Context, userID, lessonID uuid.UUID, correctAnswers, totalQuestions int, gameScore *int) (*ReconciliationResult, error) {
	if totalQuestions < 1 || totalQuestions > game.DefaultQuestionCount {
		return nil, fmt.Errorf("%w: total_questions must be between 1 and %d", ErrInvalidAttempt, game.DefaultQuestionCount)
	}
	if correctAnswers < 0 || correctAnswers > totalQuestions {
		return nil, fmt.Errorf("%w: correct_answers must be between 0 and total_questions", ErrInvalidAttempt)
	}

	attempt := Attempt{
		Accuracy:       AccuracyFor(correctAnswers, totalQuestions),
		CorrectAnswers: correctAnswers,
		TotalQuestions: totalQuestions,
	}
	if gameScore != nil {
		attempt.GameScore = *gameScore
	} else {
		attempt.GameScore = attempt.Accuracy
	}
	passed := attempt.Accuracy >= s.passThreshold

	lesson, _, course, err := s.lessonRepo.GetContext(ctx, nil, lessonID)
	if err != nil {
		return nil, fmt.Errorf("load lesson context: %w", err)
	}

	var result *ReconciliationResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prev, err := s.progressRepo.GetForUpdate(ctx, tx, userID, lessonID)
		if err != nil {
			return fmt.Errorf("lock progress row: %w", err)
		}
		wasCompleted := prev.Completed()

		merged, improved := MergeAttempt(prev, attempt, passed, s.now())
		merged.UserID = userID
		merged.LessonID = lessonID
		if prev != nil {
			merged.ID = prev.ID
		} else {
			merged.ID = uuid.New()
		}
		merged.UpdatedAt = s.now()

		if err := s.progressRepo.Upsert(ctx, tx, &merged); err != nil {
			return fmt.Errorf("persist progress: %w", err)
		}

		result = &ReconciliationResult{
			LessonID:            lessonID,
			Completed:           merged.CompletedAt != nil,
			Passed:              passed,
			Improved:            improved,
			WasAlreadyCompleted: wasCompleted,
			Accuracy:            merged.Accuracy,
			GameScore:           merged.GameScore,
			CorrectAnswers:      merged.CorrectAnswers,
			TotalQuestions:      merged.TotalQuestions,
			AttemptAccuracy:     attempt.Accuracy,
			AttemptGameScore:    attempt.GameScore,
			NewBadges:           []*domain.Badge{},
		}

		if !wasCompleted && merged.CompletedAt != nil {
			badges, err := s.badgeService.CheckAndAward(ctx, tx, userID, course.ID)
			if err != nil {
				return fmt.Errorf("award badges: %w", err)
			}
			if badges != nil {
				result.NewBadges = badges
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Message = resultMessage(result, s.passThreshold)
	s.log.Info("attempt recorded",
		"user_id", userID,
		"lesson_id", lessonID,
		"lesson", lesson.Title,
		"attempt_accuracy", attempt.Accuracy,
		"passed", passed,
		"improved", result.Improved,
		"new_badges", len(result.NewBadges))
	return result, nil
}

func resultMessage(r *ReconciliationResult, threshold int) string {
	switch {
	case len(r.NewBadges) > 0:
		return fmt.Sprintf("Lesson completed with %d%% accuracy. You earned %d new badge(s)!", r.AttemptAccuracy, len(r.NewBadges))
	case r.Passed && !r.WasAlreadyCompleted:
		return fmt.Sprintf("Lesson completed with %d%% accuracy. Great job!", r.AttemptAccuracy)
	case r.Passed && r.Improved:
		return fmt.Sprintf("New best score: %d%% accuracy.", r.Accuracy)
	case r.Passed:
		return fmt.Sprintf("Lesson passed again with %d%% accuracy.", r.AttemptAccuracy)
	default:
		return fmt.Sprintf("You scored %d%%. You need at least %d%% to complete the lesson. Keep practicing!", r.AttemptAccuracy, threshold)
	}
}

func (s *progressService) GetProgress(ctx context.Context, userID, lessonID uuid.UUID) (*domain.LessonProgress, error) {
	return s.progressRepo.GetByUserAndLesson(ctx, nil, userID, lessonID)
}

func (s *progressService) BatchProgress(ctx context.Context, userID uuid.UUID, lessonIDs []uuid.UUID) (map[uuid.UUID]*domain.LessonProgress, error) {
	rows, err := s.progressRepo.GetByUserAndLessonIDs(ctx, nil, userID, lessonIDs)
	if err != nil {
		return nil, err
	}
	byLesson := make(map[uuid.UUID]*domain.LessonProgress, len(rows))
	for _, row := range rows {
		byLesson[row.LessonID] = row
	}
	return byLesson, nil
}

func (s *progressService) CourseProgress(ctx context.Context, userID, courseID uuid.UUID) (int64, int64, error) {
	completed, err := s.progressRepo.CountCompletedInCourse(ctx, nil, userID, courseID)
	if err != nil {
		return 0, 0, err
	}
	total, err := s.courseRepo.LessonCount(ctx, nil, courseID)
	if err != nil {
		return 0, 0, err
	}
	return completed, total, nil
}
