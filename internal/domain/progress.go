package domain

import (
	"time"

	"github.com/google/uuid"
)

// LessonProgress is the per-(user, lesson) best-attempt record. Accuracy and
// game score are merged independently across attempts (each only ever
// replaced by a strictly greater value); CompletedAt is set once, on the
// first passing attempt, and never moves afterwards.
type LessonProgress struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_lesson_progress_user_lesson;column:user_id" json:"user_id"`
	LessonID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_lesson_progress_user_lesson;column:lesson_id" json:"lesson_id"`

	Accuracy       int        `gorm:"column:accuracy;not null;default:0" json:"accuracy"`
	GameScore      int        `gorm:"column:game_score;not null;default:0" json:"game_score"`
	CorrectAnswers int        `gorm:"column:correct_answers;not null;default:0" json:"correct_answers"`
	TotalQuestions int        `gorm:"column:total_questions;not null;default:0" json:"total_questions"`
	CompletedAt    *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (LessonProgress) TableName() string { return "lesson_progress" }

func (p *LessonProgress) Completed() bool { return p != nil && p.CompletedAt != nil }

type Badge struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID        uuid.UUID `gorm:"type:uuid;not null;index;column:course_id" json:"course_id"`
	Name            string    `gorm:"not null;column:name" json:"name"`
	Description     string    `gorm:"column:description;type:text" json:"description,omitempty"`
	Image           string    `gorm:"column:image" json:"image,omitempty"`
	LessonsRequired int       `gorm:"column:lessons_required;not null" json:"lessons_required"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Badge) TableName() string { return "badges" }

// UserBadge records one grant. The unique (user_id, badge_id) index is the
// authoritative guard against concurrent double-awards; the read-side
// "not yet held" check is only an optimization.
type UserBadge struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_badges_user_badge;column:user_id" json:"user_id"`
	BadgeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_badges_user_badge;column:badge_id" json:"badge_id"`
	EarnedAt time.Time `gorm:"column:earned_at;not null" json:"earned_at"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserBadge) TableName() string { return "user_badges" }
