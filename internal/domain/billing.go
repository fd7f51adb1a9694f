package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	EnrollmentPending  = "pending"
	EnrollmentActive   = "active"
	EnrollmentInactive = "inactive"

	FeePending = "pending"
	FeePaid    = "paid"
	FeeOverdue = "overdue"
)

// Enrollment lifecycle: pending (awaiting first payment) -> active ->
// inactive (suspended, usually from an overdue fee) -> active again on
// payment. One row per (user, course); re-enrollment reactivates.
type Enrollment struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_user_course;column:user_id" json:"user_id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_user_course;column:course_id" json:"course_id"`

	Status           string    `gorm:"column:status;not null;default:'pending';index" json:"status"`
	EnrolledAt       time.Time `gorm:"column:enrolled_at;not null" json:"enrolled_at"`
	CustomMonthlyFee *float64  `gorm:"column:custom_monthly_fee" json:"custom_monthly_fee,omitempty"`

	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Course *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Enrollment) TableName() string { return "enrollments" }

// MonthlyFee returns the per-enrollment override when present, otherwise the
// course's standard monthly fee.
func (e *Enrollment) MonthlyFee(course *Course) float64 {
	if e.CustomMonthlyFee != nil {
		return *e.CustomMonthlyFee
	}
	if course != nil {
		return course.MonthlyFee
	}
	return 0
}

// TuitionFee lifecycle: pending -> paid (terminal) or pending -> overdue ->
// paid. Going overdue deactivates the owning enrollment; paying reactivates
// it. The next month's fee is only ever created by the scheduled generation
// sweep, never synchronously on payment.
type TuitionFee struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EnrollmentID uuid.UUID `gorm:"type:uuid;not null;index;column:enrollment_id" json:"enrollment_id"`

	Amount        float64        `gorm:"column:amount;not null" json:"amount"`
	DueDate       time.Time      `gorm:"column:due_date;not null;index" json:"due_date"`
	Status        string         `gorm:"column:status;not null;default:'pending';index" json:"status"`
	PaidAt        *time.Time     `gorm:"column:paid_at" json:"paid_at,omitempty"`
	PaymentMethod string         `gorm:"column:payment_method" json:"payment_method,omitempty"`
	Notes         string         `gorm:"column:notes;type:text" json:"notes,omitempty"`
	Metadata      datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`

	Enrollment *Enrollment `gorm:"foreignKey:EnrollmentID" json:"enrollment,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (TuitionFee) TableName() string { return "tuition_fees" }

// IsOverdue reports whether a still-pending fee's due date has passed as of
// the supplied day.
func (f *TuitionFee) IsOverdue(today time.Time) bool {
	return f.Status == FeePending && f.DueDate.Before(today)
}
