package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumalingo/lumalingo-backend/internal/domain"
	"github.com/lumalingo/lumalingo-backend/internal/pkg/logger"
)

// EnrollmentFilter narrows admin listings; nil fields are ignored.
type EnrollmentFilter struct {
	Status   *string
	UserID   *uuid.UUID
	CourseID *uuid.UUID
}

type EnrollmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, e *domain.Enrollment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Enrollment, error)
	GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*domain.Enrollment, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error
	SetCustomMonthlyFee(ctx context.Context, tx *gorm.DB, id uuid.UUID, fee *float64) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	List(ctx context.Context, tx *gorm.DB, filter EnrollmentFilter) ([]*domain.Enrollment, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Enrollment, error)
	// ListActivePaying returns active enrollments of courses that require
	// payment, with the course preloaded; input to the fee-generation sweep.
	ListActivePaying(ctx context.Context, tx *gorm.DB) ([]*domain.Enrollment, error)
	// CountOverdueFees reports how many overdue fees the enrollment holds;
	// the access gate uses it to word the suspension message.
	CountOverdueFees(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (int64, error)
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return &enrollmentRepo{db: db, log: baseLog.With("repo", "EnrollmentRepo")}
}

func (r *enrollmentRepo) Create(ctx context.Context, tx *gorm.DB, e *domain.Enrollment) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(e).Error
}

func (r *enrollmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var e domain.Enrollment
	if err := transaction.WithContext(ctx).Preload("Course").First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *enrollmentRepo) GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*domain.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var e domain.Enrollment
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *enrollmentRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&domain.Enrollment{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *enrollmentRepo) SetCustomMonthlyFee(ctx context.Context, tx *gorm.DB, id uuid.UUID, fee *float64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&domain.Enrollment{}).
		Where("id = ?", id).
		Update("custom_monthly_fee", fee).Error
}

func (r *enrollmentRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Delete(&domain.Enrollment{}, "id = ?", id).Error
}

func (r *enrollmentRepo) List(ctx context.Context, tx *gorm.DB, filter EnrollmentFilter) ([]*domain.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Preload("User").Preload("Course")
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.CourseID != nil {
		q = q.Where("course_id = ?", *filter.CourseID)
	}
	var results []*domain.Enrollment
	if err := q.Order("enrolled_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *enrollmentRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*domain.Enrollment
	err := transaction.WithContext(ctx).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("enrolled_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *enrollmentRepo) ListActivePaying(ctx context.Context, tx *gorm.DB) ([]*domain.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*domain.Enrollment
	err := transaction.WithContext(ctx).
		Preload("Course").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("enrollments.status = ?", domain.EnrollmentActive).
		Where("courses.requires_payment = ?", true).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *enrollmentRepo) CountOverdueFees(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&domain.TuitionFee{}).
		Where("enrollment_id = ? AND status = ?", enrollmentID, domain.FeeOverdue).
		Count(&count).Error
	return count, err
}
