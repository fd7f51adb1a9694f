package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumalingo/lumalingo-backend/internal/domain"
	"github.com/lumalingo/lumalingo-backend/internal/http/middleware"
	"github.com/lumalingo/lumalingo-backend/internal/http/response"
	"github.com/lumalingo/lumalingo-backend/internal/services"
)

// maxBatchProgressIDs caps one batch progress lookup.
const maxBatchProgressIDs = 100

type GameHandler struct {
	quizService     services.QuizService
	progressService services.ProgressService
}

func NewGameHandler(quizService services.QuizService, progressService services.ProgressService) *GameHandler {
	return &GameHandler{quizService: quizService, progressService: progressService}
}

// GetQuestions builds a fresh question set for the lesson. Every call
// produces a different game; nothing is persisted.
func (gh *GameHandler) GetQuestions(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("invalid lesson id"))
		return
	}

	result, err := gh.quizService.GenerateQuestions(c.Request.Context(), lessonID)
	var poolErr *services.PoolError
	switch {
	case errors.As(err, &poolErr):
		response.RespondErrorDetails(c, http.StatusBadRequest, "insufficient_pool",
			"not enough images are available to generate questions for this lesson",
			gin.H{
				"available_images": poolErr.AvailableImages,
				"level_id":         poolErr.LevelID,
				"lesson_dia":       poolErr.LessonDay,
			})
		return
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", errors.New("lesson not found"))
		return
	case err != nil:
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}

	response.RespondOK(c, gin.H{
		"lesson": gin.H{
			"id":           result.Lesson.ID,
			"title":        result.Lesson.Title,
			"content_type": result.Lesson.ContentType,
			"dia":          result.Lesson.Day,
		},
		"questions":       result.Questions,
		"total_questions": len(result.Questions),
	})
}

// SubmitResult merges one finished game into the user's stored progress.
func (gh *GameHandler) SubmitResult(c *gin.Context) {
	user := middleware.CurrentUser(c)
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("invalid lesson id"))
		return
	}

	var req struct {
		CorrectAnswers int  `json:"correct_answers" binding:"min=0"`
		TotalQuestions int  `json:"total_questions" binding:"required,min=1"`
		GameScore      *int `json:"game_score"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	result, err := gh.progressService.RecordAttempt(c.Request.Context(), user.ID, lessonID, req.CorrectAnswers, req.TotalQuestions, req.GameScore)
	switch {
	case errors.Is(err, services.ErrInvalidAttempt):
		response.RespondError(c, http.StatusBadRequest, "invalid_attempt", err)
		return
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", errors.New("lesson not found"))
		return
	case err != nil:
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}
	response.RespondOK(c, result)
}

func (gh *GameHandler) GetProgress(c *gin.Context) {
	user := middleware.CurrentUser(c)
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("invalid lesson id"))
		return
	}

	progress, err := gh.progressService.GetProgress(c.Request.Context(), user.ID, lessonID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}
	response.RespondOK(c, progressPayload(lessonID, progress))
}

// progressPayload renders one progress row with an explicit completed flag.
// Lessons without a stored record come back with null values, not zeros, so
// clients can tell "never played" from "played and scored 0".
func progressPayload(lessonID uuid.UUID, p *domain.LessonProgress) gin.H {
	if p == nil {
		return gin.H{
			"lesson_id":       lessonID,
			"completed":       false,
			"accuracy":        nil,
			"game_score":      nil,
			"correct_answers": nil,
			"total_questions": nil,
			"completed_at":    nil,
		}
	}
	return gin.H{
		"lesson_id":       p.LessonID,
		"completed":       p.CompletedAt != nil,
		"accuracy":        p.Accuracy,
		"game_score":      p.GameScore,
		"correct_answers": p.CorrectAnswers,
		"total_questions": p.TotalQuestions,
		"completed_at":    p.CompletedAt,
	}
}

// BatchProgress returns progress for up to 100 lessons at once; lessons
// without a stored row come back as null.
func (gh *GameHandler) BatchProgress(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req struct {
		LessonIDs []uuid.UUID `json:"lesson_ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if len(req.LessonIDs) > maxBatchProgressIDs {
		response.RespondError(c, http.StatusBadRequest, "too_many_ids",
			errors.New("at most 100 lesson ids per request"))
		return
	}

	byLesson, err := gh.progressService.BatchProgress(c.Request.Context(), user.ID, req.LessonIDs)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}

	results := make(map[string]any, len(req.LessonIDs))
	for _, id := range req.LessonIDs {
		results[id.String()] = progressPayload(id, byLesson[id])
	}
	response.RespondOK(c, gin.H{"progress": results})
}
