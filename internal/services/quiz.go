package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/lumalingo/lumalingo-backend/internal/data/repos/catalog"
	"github.com/lumalingo/lumalingo-backend/internal/domain"
	"github.com/lumalingo/lumalingo-backend/internal/game"
	"github.com/lumalingo/lumalingo-backend/internal/pkg/logger"
)

// QuizResult is one generated game: the lesson header plus its questions.
type QuizResult struct {
	Lesson    game.LessonRef
	Questions []game.Question
}

// PoolError carries the pool diagnostics the client shows when a lesson has
// too few eligible images. It wraps game.ErrInsufficientPool.
type PoolError struct {
	AvailableImages int
	LevelID         uuid.UUID
	LessonDay       int
}

func (e *PoolError) Error() string { return game.ErrInsufficientPool.Error() }
func (e *PoolError) Unwrap() error { return game.ErrInsufficientPool }

type QuizService interface {
	// GenerateQuestions assembles the lesson's eligible image pool and builds
	// a fresh set of questions. Questions are never persisted.
	GenerateQuestions(ctx context.Context, lessonID uuid.UUID) (*QuizResult, error)
}

type quizService struct {
	log        *logger.Logger
	lessonRepo catalog.LessonRepo
	imageRepo  catalog.ImageRepo
	newRng     func() *rand.Rand
}

func NewQuizService(log *logger.Logger, lessonRepo catalog.LessonRepo, imageRepo catalog.ImageRepo) QuizService {
	return &quizService{
		log:        log.With("service", "QuizService"),
		lessonRepo: lessonRepo,
		imageRepo:  imageRepo,
		newRng: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

func (s *quizService) GenerateQuestions(ctx context.Context, lessonID uuid.UUID) (*QuizResult, error) {
	lesson, level, course, err := s.lessonRepo.GetContext(ctx, nil, lessonID)
	if err != nil {
		return nil, fmt.Errorf("load lesson context: %w", err)
	}

	images, err := s.imageRepo.EligibleForLesson(ctx, nil, course.ID, level.Order, lesson.Day)
	if err != nil {
		return nil, fmt.Errorf("load eligible images: %w", err)
	}
	if len(images) < 2 {
		return nil, &PoolError{
			AvailableImages: len(images),
			LevelID:         level.ID,
			LessonDay:       lesson.Day,
		}
	}

	ref := game.LessonRef{
		ID:          lesson.ID,
		Title:       lesson.Title,
		ContentType: lesson.ContentType,
		Day:         lesson.Day,
	}
	gen := game.NewGenerator(s.log, s.newRng())
	questions, err := gen.Generate(ref, poolFromImages(images), game.DefaultQuestionCount)
	if err != nil {
		return nil, err
	}
	return &QuizResult{Lesson: ref, Questions: questions}, nil
}

func poolFromImages(images []*domain.Image) []game.Image {
	pool := make([]game.Image, 0, len(images))
	for _, img := range images {
		subIDs := make([]uuid.UUID, 0, len(img.Subcategories))
		for _, sub := range img.Subcategories {
			subIDs = append(subIDs, sub.ID)
		}
		pool = append(pool, game.Image{
			ID:             img.ID,
			CategoryID:     img.CategoryID,
			SubcategoryIDs: subIDs,
			Day:            img.Day,
			URL:            img.URL,
			AudioURL:       img.AudioURL,
			Description:    img.Description,
		})
	}
	return pool
}
