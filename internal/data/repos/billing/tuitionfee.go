package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumalingo/lumalingo-backend/internal/domain"
	"github.com/lumalingo/lumalingo-backend/internal/pkg/logger"
)

// FeeFilter narrows fee listings; nil fields are ignored.
type FeeFilter struct {
	Status       *string
	EnrollmentID *uuid.UUID
	DueBefore    *time.Time
	DueAfter     *time.Time
}

type TuitionFeeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, fee *domain.TuitionFee) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.TuitionFee, error)
	Update(ctx context.Context, tx *gorm.DB, fee *domain.TuitionFee) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	List(ctx context.Context, tx *gorm.DB, filter FeeFilter) ([]*domain.TuitionFee, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.TuitionFee, error)
	// LatestByDueDate returns the enrollment's most recent fee by due date,
	// or nil when the enrollment has no fees yet.
	LatestByDueDate(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (*domain.TuitionFee, error)
	// ExistsForDueDate reports whether a fee already covers the given due
	// day; the generation sweep checks this before creating a new one.
	ExistsForDueDate(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID, dueDate time.Time) (bool, error)
	// ListPendingDueBefore returns pending fees whose due date is strictly
	// before the cutoff, with the enrollment preloaded for deactivation.
	ListPendingDueBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) ([]*domain.TuitionFee, error)
	CountByStatus(ctx context.Context, tx *gorm.DB, status string) (int64, error)
	SumAmountByStatus(ctx context.Context, tx *gorm.DB, status string) (float64, error)
	// CountPaidInMonth counts fees paid within the calendar month containing
	// the given day.
	CountPaidInMonth(ctx context.Context, tx *gorm.DB, day time.Time) (int64, error)
	// SumPaidInMonth totals amounts of fees paid within that month.
	SumPaidInMonth(ctx context.Context, tx *gorm.DB, day time.Time) (float64, error)
}

type tuitionFeeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTuitionFeeRepo(db *gorm.DB, baseLog *logger.Logger) TuitionFeeRepo {
	return &tuitionFeeRepo{db: db, log: baseLog.With("repo", "TuitionFeeRepo")}
}

func (r *tuitionFeeRepo) Create(ctx context.Context, tx *gorm.DB, fee *domain.TuitionFee) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(fee).Error
}

func (r *tuitionFeeRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.TuitionFee, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var fee domain.TuitionFee
	err := transaction.WithContext(ctx).
		Preload("Enrollment").
		Preload("Enrollment.Course").
		First(&fee, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &fee, nil
}

func (r *tuitionFeeRepo) Update(ctx context.Context, tx *gorm.DB, fee *domain.TuitionFee) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(fee).Error
}

func (r *tuitionFeeRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Delete(&domain.TuitionFee{}, "id = ?", id).Error
}

func (r *tuitionFeeRepo) List(ctx context.Context, tx *gorm.DB, filter FeeFilter) ([]*domain.TuitionFee, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Preload("Enrollment").
		Preload("Enrollment.User").
		Preload("Enrollment.Course")
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.EnrollmentID != nil {
		q = q.Where("enrollment_id = ?", *filter.EnrollmentID)
	}
	if filter.DueBefore != nil {
		q = q.Where("due_date < ?", *filter.DueBefore)
	}
	if filter.DueAfter != nil {
		q = q.Where("due_date >= ?", *filter.DueAfter)
	}
	var fees []*domain.TuitionFee
	if err := q.Order("due_date DESC").Find(&fees).Error; err != nil {
		return nil, err
	}
	return fees, nil
}

func (r *tuitionFeeRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.TuitionFee, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var fees []*domain.TuitionFee
	err := transaction.WithContext(ctx).
		Preload("Enrollment").
		Preload("Enrollment.Course").
		Joins("JOIN enrollments ON enrollments.id = tuition_fees.enrollment_id").
		Where("enrollments.user_id = ?", userID).
		Order("tuition_fees.due_date DESC").
		Find(&fees).Error
	if err != nil {
		return nil, err
	}
	return fees, nil
}

func (r *tuitionFeeRepo) LatestByDueDate(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (*domain.TuitionFee, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var fee domain.TuitionFee
	err := transaction.WithContext(ctx).
		Where("enrollment_id = ?", enrollmentID).
		Order("due_date DESC").
		First(&fee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &fee, nil
}

func (r *tuitionFeeRepo) ExistsForDueDate(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID, dueDate time.Time) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	dayStart := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, dueDate.Location())
	var count int64
	err := transaction.WithContext(ctx).
		Model(&domain.TuitionFee{}).
		Where("enrollment_id = ?", enrollmentID).
		Where("due_date >= ? AND due_date < ?", dayStart, dayStart.AddDate(0, 0, 1)).
		Count(&count).Error
	return count > 0, err
}

func (r *tuitionFeeRepo) ListPendingDueBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) ([]*domain.TuitionFee, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var fees []*domain.TuitionFee
	err := transaction.WithContext(ctx).
		Preload("Enrollment").
		Where("status = ?", domain.FeePending).
		Where("due_date < ?", cutoff).
		Find(&fees).Error
	if err != nil {
		return nil, err
	}
	return fees, nil
}

func (r *tuitionFeeRepo) CountByStatus(ctx context.Context, tx *gorm.DB, status string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&domain.TuitionFee{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *tuitionFeeRepo) SumAmountByStatus(ctx context.Context, tx *gorm.DB, status string) (float64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var total float64
	err := transaction.WithContext(ctx).
		Model(&domain.TuitionFee{}).
		Where("status = ?", status).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *tuitionFeeRepo) CountPaidInMonth(ctx context.Context, tx *gorm.DB, day time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	start, end := monthBounds(day)
	var count int64
	err := transaction.WithContext(ctx).
		Model(&domain.TuitionFee{}).
		Where("status = ?", domain.FeePaid).
		Where("paid_at >= ? AND paid_at < ?", start, end).
		Count(&count).Error
	return count, err
}

func (r *tuitionFeeRepo) SumPaidInMonth(ctx context.Context, tx *gorm.DB, day time.Time) (float64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	start, end := monthBounds(day)
	var total float64
	err := transaction.WithContext(ctx).
		Model(&domain.TuitionFee{}).
		Where("status = ?", domain.FeePaid).
		Where("paid_at >= ? AND paid_at < ?", start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func monthBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 1, 0)
}
