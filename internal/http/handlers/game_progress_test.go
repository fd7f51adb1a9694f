package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lumalingo/lumalingo-backend/internal/domain"
	"github.com/lumalingo/lumalingo-backend/internal/http/middleware"
	"github.com/lumalingo/lumalingo-backend/internal/services"
)

type stubProgressService struct {
	byLesson map[uuid.UUID]*domain.LessonProgress
}

func (s *stubProgressService) RecordAttempt(ctx context.Context, userID, lessonID uuid.UUID, correctAnswers, totalQuestions int, gameScore *int) (*services.ReconciliationResult, error) {
	return nil, nil
}

func (s *stubProgressService) GetProgress(ctx context.Context, userID, lessonID uuid.UUID) (*domain.LessonProgress, error) {
	return s.byLesson[lessonID], nil
}

func (s *stubProgressService) BatchProgress(ctx context.Context, userID uuid.UUID, lessonIDs []uuid.UUID) (map[uuid.UUID]*domain.LessonProgress, error) {
	out := make(map[uuid.UUID]*domain.LessonProgress)
	for _, id := range lessonIDs {
		if p, ok := s.byLesson[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (s *stubProgressService) CourseProgress(ctx context.Context, userID, courseID uuid.UUID) (int64, int64, error) {
	return 0, 0, nil
}

func progressTestRouter(svc services.ProgressService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	gh := NewGameHandler(nil, svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		middleware.SetCurrentUser(c, &domain.User{ID: uuid.New(), Role: domain.RoleStudent})
		c.Next()
	})
	r.GET("/api/lessons/:id/progress", gh.GetProgress)
	r.POST("/api/lessons/batch/progress", gh.BatchProgress)
	return r
}

func TestGetProgressWithoutRecordReturnsNullDefaults(t *testing.T) {
	r := progressTestRouter(&stubProgressService{byLesson: map[uuid.UUID]*domain.LessonProgress{}})

	lessonID := uuid.New()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/lessons/"+lessonID.String()+"/progress", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["completed"] != false {
		t.Fatalf("expected completed=false, got %v", body["completed"])
	}
	for _, key := range []string{"accuracy", "game_score", "correct_answers", "total_questions", "completed_at"} {
		v, ok := body[key]
		if !ok {
			t.Fatalf("expected %q in payload", key)
		}
		if v != nil {
			t.Fatalf("expected %q to be null without a record, got %v", key, v)
		}
	}
}

func TestGetProgressWithRecordCarriesCompletedFlag(t *testing.T) {
	lessonID := uuid.New()
	done := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	r := progressTestRouter(&stubProgressService{byLesson: map[uuid.UUID]*domain.LessonProgress{
		lessonID: {
			LessonID: lessonID, Accuracy: 85, GameScore: 90,
			CorrectAnswers: 17, TotalQuestions: 20, CompletedAt: &done,
		},
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/lessons/"+lessonID.String()+"/progress", nil)
	r.ServeHTTP(w, req)

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["completed"] != true {
		t.Fatalf("expected completed=true, got %v", body["completed"])
	}
	if body["accuracy"] != float64(85) || body["game_score"] != float64(90) {
		t.Fatalf("unexpected values: %v", body)
	}
	if body["completed_at"] == nil {
		t.Fatalf("expected completed_at to be set")
	}
}

func TestBatchProgressMixesRecordsAndNullDefaults(t *testing.T) {
	played := uuid.New()
	unplayed := uuid.New()
	r := progressTestRouter(&stubProgressService{byLesson: map[uuid.UUID]*domain.LessonProgress{
		played: {LessonID: played, Accuracy: 60, GameScore: 60, CorrectAnswers: 12, TotalQuestions: 20},
	}})

	payload, _ := json.Marshal(map[string]any{
		"lesson_ids": []string{played.String(), unplayed.String()},
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/lessons/batch/progress", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Progress map[string]map[string]any `json:"progress"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}

	playedRow := body.Progress[played.String()]
	if playedRow == nil || playedRow["completed"] != false || playedRow["accuracy"] != float64(60) {
		t.Fatalf("unexpected played row: %v", playedRow)
	}
	unplayedRow := body.Progress[unplayed.String()]
	if unplayedRow == nil {
		t.Fatalf("expected a row for the unplayed lesson")
	}
	if unplayedRow["completed"] != false || unplayedRow["accuracy"] != nil {
		t.Fatalf("expected null defaults for unplayed lesson, got %v", unplayedRow)
	}
}
