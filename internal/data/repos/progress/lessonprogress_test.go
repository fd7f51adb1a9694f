package progress

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lumalingo/lumalingo-backend/internal/data/repos/testutil"
	"github.com/lumalingo/lumalingo-backend/internal/domain"
)

func TestUpsertReplacesExistingRow(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewLessonProgressRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := testutil.SeedUser(t, tx, "student")
	course := testutil.SeedCourse(t, tx, 0, false)
	level := testutil.SeedLevel(t, tx, course.ID, 1)
	lesson := testutil.SeedLesson(t, tx, level.ID, 1, 1, "combinadas")

	first := &domain.LessonProgress{
		ID:             uuid.New(),
		UserID:         user.ID,
		LessonID:       lesson.ID,
		Accuracy:       60,
		GameScore:      60,
		CorrectAnswers: 12,
		TotalQuestions: 20,
	}
	if err := repo.Upsert(ctx, tx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	now := time.Now()
	second := &domain.LessonProgress{
		ID:             uuid.New(),
		UserID:         user.ID,
		LessonID:       lesson.ID,
		Accuracy:       85,
		GameScore:      85,
		CorrectAnswers: 17,
		TotalQuestions: 20,
		CompletedAt:    &now,
	}
	if err := repo.Upsert(ctx, tx, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := repo.GetByUserAndLesson(ctx, tx, user.ID, lesson.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatalf("expected a progress row")
	}
	if got.Accuracy != 85 || got.CorrectAnswers != 17 {
		t.Fatalf("expected updated values, got accuracy=%d correct=%d", got.Accuracy, got.CorrectAnswers)
	}
	if got.CompletedAt == nil {
		t.Fatalf("expected completed_at to be set")
	}
}

func TestCountCompletedInCourseScopesByCourse(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewLessonProgressRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := testutil.SeedUser(t, tx, "student")
	course := testutil.SeedCourse(t, tx, 0, false)
	other := testutil.SeedCourse(t, tx, 0, false)
	level := testutil.SeedLevel(t, tx, course.ID, 1)
	otherLevel := testutil.SeedLevel(t, tx, other.ID, 1)

	now := time.Now()
	for i := 0; i < 3; i++ {
		lesson := testutil.SeedLesson(t, tx, level.ID, 1, i+1, "combinadas")
		p := &domain.LessonProgress{
			ID:       uuid.New(),
			UserID:   user.ID,
			LessonID: lesson.ID,
			Accuracy: 80,
		}
		if i < 2 {
			p.CompletedAt = &now
		}
		if err := repo.Upsert(ctx, tx, p); err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
	}
	otherLesson := testutil.SeedLesson(t, tx, otherLevel.ID, 1, 1, "combinadas")
	if err := repo.Upsert(ctx, tx, &domain.LessonProgress{
		ID: uuid.New(), UserID: user.ID, LessonID: otherLesson.ID, Accuracy: 90, CompletedAt: &now,
	}); err != nil {
		t.Fatalf("upsert other course: %v", err)
	}

	count, err := repo.CountCompletedInCourse(ctx, tx, user.ID, course.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 completed lessons in course, got %d", count)
	}
}
