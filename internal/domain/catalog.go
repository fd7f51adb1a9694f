package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Catalog entities are read-only inputs to the game and billing cores.
// Their authoring surface (CRUD, uploads) lives outside this service.

type Course struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title           string         `gorm:"not null;column:title" json:"title"`
	Description     string         `gorm:"column:description;type:text" json:"description,omitempty"`
	MonthlyFee      float64        `gorm:"column:monthly_fee;not null;default:0" json:"monthly_fee"`
	RequiresPayment bool           `gorm:"column:requires_payment;not null;default:true" json:"requires_payment"`
	Metadata        datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Course) TableName() string { return "courses" }

// Level ordering within a course drives image eligibility: a unique
// (course_id, order) pair is a data-integrity precondition.
type Level struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index;column:course_id" json:"course_id"`
	Title    string    `gorm:"not null;column:title" json:"title"`
	Order    int       `gorm:"column:position;not null;uniqueIndex:idx_levels_course_position" json:"order"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Level) TableName() string { return "levels" }

type Lesson struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LevelID     uuid.UUID      `gorm:"type:uuid;not null;index;column:level_id" json:"level_id"`
	Title       string         `gorm:"not null;column:title" json:"title"`
	ContentType string         `gorm:"column:content_type;not null" json:"content_type"`
	Day         int            `gorm:"column:dia;not null;default:1" json:"dia"`
	Order       int            `gorm:"column:position;not null;default:0" json:"order"`
	Metadata    datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Lesson) TableName() string { return "lessons" }

type Category struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_categories_course_name;column:course_id" json:"course_id"`
	Name     string    `gorm:"not null;uniqueIndex:idx_categories_course_name;column:name" json:"name"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Category) TableName() string { return "categories" }

type Subcategory struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;index;column:category_id" json:"category_id"`
	Name       string    `gorm:"not null;column:name" json:"name"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Subcategory) TableName() string { return "subcategories" }

// Image carries both the visual and the audio asset of one vocabulary item.
// Subcategories exist purely so the pairing validator can tell apart items
// that would be ambiguous as opposing quiz options.
type Image struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LevelID     uuid.UUID `gorm:"type:uuid;not null;index;column:level_id" json:"level_id"`
	CategoryID  uuid.UUID `gorm:"type:uuid;not null;index;column:category_id" json:"category_id"`
	Day         int       `gorm:"column:dia;not null;default:1" json:"dia"`
	URL         string    `gorm:"not null;column:url" json:"url"`
	AudioURL    string    `gorm:"column:audio_url" json:"audio_url"`
	Description string    `gorm:"column:description" json:"description"`

	Subcategories []Subcategory `gorm:"many2many:image_subcategories" json:"subcategories,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Image) TableName() string { return "images" }
