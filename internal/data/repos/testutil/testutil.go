// Package testutil provides shared helpers for repository tests that run
// against a real Postgres database. Tests skip when TEST_POSTGRES_DSN is
// unset, so the suite stays green on machines without a database.
package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/lumalingo/lumalingo-backend/internal/domain"
	"github.com/lumalingo/lumalingo-backend/internal/pkg/logger"
)

func Logger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

// DB opens the test database and migrates the schema, or skips the test when
// no DSN is configured.
func DB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping database test")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Course{},
		&domain.Level{},
		&domain.Lesson{},
		&domain.Category{},
		&domain.Subcategory{},
		&domain.Image{},
		&domain.LessonProgress{},
		&domain.Badge{},
		&domain.UserBadge{},
		&domain.Enrollment{},
		&domain.TuitionFee{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// Tx begins a transaction that is rolled back when the test finishes, so
// tests never leave rows behind.
func Tx(t *testing.T, db *gorm.DB) *gorm.DB {
	t.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() { tx.Rollback() })
	return tx
}

func SeedUser(t *testing.T, tx *gorm.DB, role string) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:       uuid.New(),
		Name:     "Test User",
		Email:    fmt.Sprintf("user-%s@example.com", uuid.NewString()[:8]),
		Password: "$2a$10$abcdefghijklmnopqrstuv",
		Role:     role,
	}
	if err := tx.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCourse(t *testing.T, tx *gorm.DB, monthlyFee float64, requiresPayment bool) *domain.Course {
	t.Helper()
	c := &domain.Course{
		ID:              uuid.New(),
		Title:           fmt.Sprintf("Course %s", uuid.NewString()[:8]),
		MonthlyFee:      monthlyFee,
		RequiresPayment: requiresPayment,
	}
	if err := tx.Create(c).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedLevel(t *testing.T, tx *gorm.DB, courseID uuid.UUID, order int) *domain.Level {
	t.Helper()
	l := &domain.Level{
		ID:       uuid.New(),
		CourseID: courseID,
		Title:    fmt.Sprintf("Level %d", order),
		Order:    order,
	}
	if err := tx.Create(l).Error; err != nil {
		t.Fatalf("seed level: %v", err)
	}
	return l
}

func SeedLesson(t *testing.T, tx *gorm.DB, levelID uuid.UUID, day, order int, contentType string) *domain.Lesson {
	t.Helper()
	l := &domain.Lesson{
		ID:          uuid.New(),
		LevelID:     levelID,
		Title:       fmt.Sprintf("Lesson d%d-%d", day, order),
		ContentType: contentType,
		Day:         day,
		Order:       order,
	}
	if err := tx.Create(l).Error; err != nil {
		t.Fatalf("seed lesson: %v", err)
	}
	return l
}

func SeedCategory(t *testing.T, tx *gorm.DB, courseID uuid.UUID) *domain.Category {
	t.Helper()
	c := &domain.Category{
		ID:       uuid.New(),
		CourseID: courseID,
		Name:     fmt.Sprintf("Category %s", uuid.NewString()[:8]),
	}
	if err := tx.Create(c).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return c
}

func SeedImage(t *testing.T, tx *gorm.DB, levelID, categoryID uuid.UUID, day int) *domain.Image {
	t.Helper()
	img := &domain.Image{
		ID:         uuid.New(),
		LevelID:    levelID,
		CategoryID: categoryID,
		Day:        day,
		URL:        fmt.Sprintf("https://cdn.example.com/%s.png", uuid.NewString()[:8]),
		AudioURL:   fmt.Sprintf("https://cdn.example.com/%s.mp3", uuid.NewString()[:8]),
	}
	if err := tx.Create(img).Error; err != nil {
		t.Fatalf("seed image: %v", err)
	}
	return img
}

func SeedBadge(t *testing.T, tx *gorm.DB, courseID uuid.UUID, lessonsRequired int) *domain.Badge {
	t.Helper()
	b := &domain.Badge{
		ID:              uuid.New(),
		CourseID:        courseID,
		Name:            fmt.Sprintf("Badge %d", lessonsRequired),
		LessonsRequired: lessonsRequired,
	}
	if err := tx.Create(b).Error; err != nil {
		t.Fatalf("seed badge: %v", err)
	}
	return b
}

func SeedEnrollment(t *testing.T, tx *gorm.DB, userID, courseID uuid.UUID, status string) *domain.Enrollment {
	t.Helper()
	e := &domain.Enrollment{
		ID:         uuid.New(),
		UserID:     userID,
		CourseID:   courseID,
		Status:     status,
		EnrolledAt: time.Now(),
	}
	if err := tx.Create(e).Error; err != nil {
		t.Fatalf("seed enrollment: %v", err)
	}
	return e
}

func SeedFee(t *testing.T, tx *gorm.DB, enrollmentID uuid.UUID, amount float64, dueDate time.Time, status string) *domain.TuitionFee {
	t.Helper()
	f := &domain.TuitionFee{
		ID:           uuid.New(),
		EnrollmentID: enrollmentID,
		Amount:       amount,
		DueDate:      dueDate,
		Status:       status,
	}
	if err := tx.Create(f).Error; err != nil {
		t.Fatalf("seed fee: %v", err)
	}
	return f
}
