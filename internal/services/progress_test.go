package services

import (
	"testing"
	"time"

	"github.com/lumalingo/lumalingo-backend/internal/domain"
)

func TestAccuracyForRoundsHalfUp(t *testing.T) {
	cases := []struct {
		correct, total, want int
	}{
		{15, 20, 75},
		{14, 20, 70},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
		{0, 20, 0},
		{20, 20, 100},
	}
	for _, tc := range cases {
		if got := AccuracyFor(tc.correct, tc.total); got != tc.want {
			t.Errorf("AccuracyFor(%d, %d) = %d, want %d", tc.correct, tc.total, got, tc.want)
		}
	}
}

func TestMergeAttemptFirstAttempt(t *testing.T) {
	now := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)
	attempt := Attempt{Accuracy: 80, GameScore: 80, CorrectAnswers: 16, TotalQuestions: 20}

	merged, improved := MergeAttempt(nil, attempt, true, now)
	if !improved {
		t.Fatalf("first attempt should count as improvement")
	}
	if merged.Accuracy != 80 || merged.CorrectAnswers != 16 || merged.TotalQuestions != 20 {
		t.Fatalf("unexpected merged values: %+v", merged)
	}
	if merged.CompletedAt == nil || !merged.CompletedAt.Equal(now) {
		t.Fatalf("expected completed_at=%v, got %v", now, merged.CompletedAt)
	}
}

func TestMergeAttemptFirstFailingAttemptDoesNotComplete(t *testing.T) {
	now := time.Now()
	merged, improved := MergeAttempt(nil, Attempt{Accuracy: 50, GameScore: 50, CorrectAnswers: 10, TotalQuestions: 20}, false, now)
	if !improved {
		t.Fatalf("first attempt should count as improvement")
	}
	if merged.CompletedAt != nil {
		t.Fatalf("failing attempt must not set completed_at")
	}
}

func TestMergeAttemptAccuracyTripleMovesTogether(t *testing.T) {
	now := time.Now()
	prev := &domain.LessonProgress{Accuracy: 70, GameScore: 90, CorrectAnswers: 14, TotalQuestions: 20}

	merged, improved := MergeAttempt(prev, Attempt{Accuracy: 80, GameScore: 60, CorrectAnswers: 8, TotalQuestions: 10}, true, now)
	if !improved {
		t.Fatalf("expected improvement")
	}
	if merged.Accuracy != 80 || merged.CorrectAnswers != 8 || merged.TotalQuestions != 10 {
		t.Fatalf("accuracy triple should follow the better attempt, got %+v", merged)
	}
	if merged.GameScore != 90 {
		t.Fatalf("game score must keep the previous best, got %d", merged.GameScore)
	}
}

func TestMergeAttemptGameScoreImprovesIndependently(t *testing.T) {
	now := time.Now()
	prev := &domain.LessonProgress{Accuracy: 90, GameScore: 70, CorrectAnswers: 18, TotalQuestions: 20}

	merged, improved := MergeAttempt(prev, Attempt{Accuracy: 60, GameScore: 95, CorrectAnswers: 12, TotalQuestions: 20}, false, now)
	if !improved {
		t.Fatalf("expected improvement from the game score")
	}
	if merged.Accuracy != 90 || merged.CorrectAnswers != 18 {
		t.Fatalf("worse accuracy must not replace the stored triple, got %+v", merged)
	}
	if merged.GameScore != 95 {
		t.Fatalf("expected game score 95, got %d", merged.GameScore)
	}
}

func TestMergeAttemptCompletedAtImmutable(t *testing.T) {
	first := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	later := first.AddDate(0, 0, 10)
	prev := &domain.LessonProgress{
		Accuracy: 80, GameScore: 80, CorrectAnswers: 16, TotalQuestions: 20,
		CompletedAt: &first,
	}

	merged, _ := MergeAttempt(prev, Attempt{Accuracy: 95, GameScore: 95, CorrectAnswers: 19, TotalQuestions: 20}, true, later)
	if merged.CompletedAt == nil || !merged.CompletedAt.Equal(first) {
		t.Fatalf("completed_at must keep its first value, got %v", merged.CompletedAt)
	}
}

func TestMergeAttemptNoImprovement(t *testing.T) {
	done := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	prev := &domain.LessonProgress{
		Accuracy: 90, GameScore: 90, CorrectAnswers: 18, TotalQuestions: 20,
		CompletedAt: &done,
	}

	merged, improved := MergeAttempt(prev, Attempt{Accuracy: 75, GameScore: 75, CorrectAnswers: 15, TotalQuestions: 20}, true, time.Now())
	if improved {
		t.Fatalf("weaker attempt must not count as improvement")
	}
	if merged.Accuracy != 90 || merged.GameScore != 90 {
		t.Fatalf("stored bests must survive, got %+v", merged)
	}
}

func TestMergeAttemptEqualValuesDoNotImprove(t *testing.T) {
	done := time.Now()
	prev := &domain.LessonProgress{
		Accuracy: 80, GameScore: 80, CorrectAnswers: 16, TotalQuestions: 20,
		CompletedAt: &done,
	}
	_, improved := MergeAttempt(prev, Attempt{Accuracy: 80, GameScore: 80, CorrectAnswers: 16, TotalQuestions: 20}, true, time.Now())
	if improved {
		t.Fatalf("equal attempt must not count as improvement")
	}
}

func TestMergeAttemptLateFirstPassSetsCompletion(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	prev := &domain.LessonProgress{Accuracy: 60, GameScore: 60, CorrectAnswers: 12, TotalQuestions: 20}

	merged, improved := MergeAttempt(prev, Attempt{Accuracy: 75, GameScore: 75, CorrectAnswers: 15, TotalQuestions: 20}, true, now)
	if !improved {
		t.Fatalf("first pass should count as improvement")
	}
	if merged.CompletedAt == nil || !merged.CompletedAt.Equal(now) {
		t.Fatalf("expected completion at %v, got %v", now, merged.CompletedAt)
	}
}
