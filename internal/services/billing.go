package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/lumalingo/lumalingo-backend/internal/data/repos/billing"
	"github.com/lumalingo/lumalingo-backend/internal/data/repos/catalog"
	"github.com/lumalingo/lumalingo-backend/internal/domain"
	"github.com/lumalingo/lumalingo-backend/internal/pkg/logger"
)

// GenerationLeadDays is how many days before the due date a fee is created.
const GenerationLeadDays = 7

// TuitionStatistics is the admin dashboard aggregate.
type TuitionStatistics struct {
	PendingCount  int64   `json:"pending_count"`
	PendingAmount float64 `json:"pending_amount"`
	OverdueCount  int64   `json:"overdue_count"`
	OverdueAmount float64 `json:"overdue_amount"`
	PaidThisMonth int64   `json:"paid_this_month"`
	RevenueMonth  float64 `json:"revenue_this_month"`
}

type BillingService interface {
	// EnrollUser creates or reactivates the user's enrollment. A new
	// enrollment in a paying course starts pending with its first fee due
	// tomorrow; a free course activates immediately.
	EnrollUser(ctx context.Context, userID, courseID uuid.UUID, customFee *float64) (*domain.Enrollment, error)
	UnenrollUser(ctx context.Context, enrollmentID uuid.UUID) error
	UpdateEnrollmentStatus(ctx context.Context, enrollmentID uuid.UUID, status string) error
	GetEnrollment(ctx context.Context, userID, courseID uuid.UUID) (*domain.Enrollment, error)
	ListEnrollments(ctx context.Context, filter billing.EnrollmentFilter) ([]*domain.Enrollment, error)
	ListUserEnrollments(ctx context.Context, userID uuid.UUID) ([]*domain.Enrollment, error)
	CountOverdueFees(ctx context.Context, enrollmentID uuid.UUID) (int64, error)

	// GenerateDueFees creates next-month fees for active enrollments of
	// paying courses once inside the lead window. Idempotent per due date.
	GenerateDueFees(ctx context.Context, today time.Time) (int, error)
	// SweepOverdue flips lapsed pending fees to overdue and deactivates
	// their enrollments.
	SweepOverdue(ctx context.Context, today time.Time) (int, error)
	// MarkPaid settles a fee and reactivates the enrollment. The next fee
	// is never created here; that is the generation sweep's job.
	MarkPaid(ctx context.Context, feeID uuid.UUID, method, notes string) (*domain.TuitionFee, error)
	Statistics(ctx context.Context) (*TuitionStatistics, error)

	CreateFee(ctx context.Context, enrollmentID uuid.UUID, amount float64, dueDate time.Time, notes string) (*domain.TuitionFee, error)
	GetFee(ctx context.Context, feeID uuid.UUID) (*domain.TuitionFee, error)
	UpdateFee(ctx context.Context, fee *domain.TuitionFee) error
	DeleteFee(ctx context.Context, feeID uuid.UUID) error
	ListFees(ctx context.Context, filter billing.FeeFilter) ([]*domain.TuitionFee, error)
	ListUserFees(ctx context.Context, userID uuid.UUID) ([]*domain.TuitionFee, error)
	// ListUserOutstandingFees returns the user's pending and overdue fees.
	ListUserOutstandingFees(ctx context.Context, userID uuid.UUID) ([]*domain.TuitionFee, error)
}

type billingService struct {
	db             *gorm.DB
	log            *logger.Logger
	enrollmentRepo billing.EnrollmentRepo
	feeRepo        billing.TuitionFeeRepo
	courseRepo     catalog.CourseRepo
	now            func() time.Time
}

func NewBillingService(
	db *gorm.DB,
	log *logger.Logger,
	enrollmentRepo billing.EnrollmentRepo,
	feeRepo billing.TuitionFeeRepo,
	courseRepo catalog.CourseRepo,
) BillingService {
	return &billingService{
		db:             db,
		log:            log.With("service", "BillingService"),
		enrollmentRepo: enrollmentRepo,
		feeRepo:        feeRepo,
		courseRepo:     courseRepo,
		now:            time.Now,
	}
}

// dueTime pins a due date to 01:00 on the given day, matching the morning
// slot the scheduler runs in.
func dueTime(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 1, 0, 0, 0, day.Location())
}

func (s *billingService) EnrollUser(ctx context.Context, userID, courseID uuid.UUID, customFee *float64) (*domain.Enrollment, error) {
	course, err := s.courseRepo.GetByID(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}

	existing, err := s.enrollmentRepo.GetByUserAndCourse(ctx, nil, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("check existing enrollment: %w", err)
	}
	if existing != nil {
		if existing.Status == domain.EnrollmentActive {
			return nil, ErrAlreadyEnrolled
		}
		// Re-enrolling a pending or inactive enrollment activates it and
		// refreshes the per-student fee override when one is supplied.
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.enrollmentRepo.UpdateStatus(ctx, tx, existing.ID, domain.EnrollmentActive); err != nil {
				return fmt.Errorf("reactivate enrollment: %w", err)
			}
			if customFee != nil {
				if err := s.enrollmentRepo.SetCustomMonthlyFee(ctx, tx, existing.ID, customFee); err != nil {
					return fmt.Errorf("update custom fee: %w", err)
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		existing.Status = domain.EnrollmentActive
		if customFee != nil {
			existing.CustomMonthlyFee = customFee
		}
		s.log.Info("enrollment reactivated", "enrollment_id", existing.ID, "user_id", userID)
		return existing, nil
	}

	enrollment := &domain.Enrollment{
		ID:               uuid.New(),
		UserID:           userID,
		CourseID:         courseID,
		EnrolledAt:       s.now(),
		CustomMonthlyFee: customFee,
	}
	if course.RequiresPayment {
		enrollment.Status = domain.EnrollmentPending
	} else {
		enrollment.Status = domain.EnrollmentActive
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.enrollmentRepo.Create(ctx, tx, enrollment); err != nil {
			return fmt.Errorf("create enrollment: %w", err)
		}
		if !course.RequiresPayment {
			return nil
		}
		fee := &domain.TuitionFee{
			ID:           uuid.New(),
			EnrollmentID: enrollment.ID,
			Amount:       enrollment.MonthlyFee(course),
			DueDate:      dueTime(s.now().AddDate(0, 0, 1)),
			Status:       domain.FeePending,
		}
		if err := s.feeRepo.Create(ctx, tx, fee); err != nil {
			return fmt.Errorf("create first fee: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("user enrolled",
		"enrollment_id", enrollment.ID,
		"user_id", userID,
		"course_id", courseID,
		"status", enrollment.Status)
	return enrollment, nil
}

func (s *billingService) UnenrollUser(ctx context.Context, enrollmentID uuid.UUID) error {
	return s.enrollmentRepo.Delete(ctx, nil, enrollmentID)
}

func (s *billingService) UpdateEnrollmentStatus(ctx context.Context, enrollmentID uuid.UUID, status string) error {
	switch status {
	case domain.EnrollmentPending, domain.EnrollmentActive, domain.EnrollmentInactive:
	default:
		return fmt.Errorf("unknown enrollment status %q", status)
	}
	return s.enrollmentRepo.UpdateStatus(ctx, nil, enrollmentID, status)
}

func (s *billingService) GetEnrollment(ctx context.Context, userID, courseID uuid.UUID) (*domain.Enrollment, error) {
	return s.enrollmentRepo.GetByUserAndCourse(ctx, nil, userID, courseID)
}

func (s *billingService) ListEnrollments(ctx context.Context, filter billing.EnrollmentFilter) ([]*domain.Enrollment, error) {
	return s.enrollmentRepo.List(ctx, nil, filter)
}

func (s *billingService) ListUserEnrollments(ctx context.Context, userID uuid.UUID) ([]*domain.Enrollment, error) {
	return s.enrollmentRepo.ListByUser(ctx, nil, userID)
}

func (s *billingService) CountOverdueFees(ctx context.Context, enrollmentID uuid.UUID) (int64, error) {
	return s.enrollmentRepo.CountOverdueFees(ctx, nil, enrollmentID)
}

// NextDueDate computes when an enrollment's next fee falls due: one month
// after the most recent fee. Enrollments without fee history never reach
// this; the generation sweep skips them.
func NextDueDate(lastDue time.Time) time.Time {
	return lastDue.AddDate(0, 1, 0)
}

// InGenerationWindow reports whether a fee due at dueDate should be created
// as of today.
func InGenerationWindow(dueDate, today time.Time) bool {
	return !today.Before(dueDate.AddDate(0, 0, -GenerationLeadDays))
}

func (s *billingService) GenerateDueFees(ctx context.Context, today time.Time) (int, error) {
	enrollments, err := s.enrollmentRepo.ListActivePaying(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("list active paying enrollments: %w", err)
	}

	generated := 0
	for _, enrollment := range enrollments {
		amount := enrollment.MonthlyFee(enrollment.Course)
		if amount <= 0 {
			s.log.Warn("skipping fee generation for zero-amount enrollment",
				"enrollment_id", enrollment.ID)
			continue
		}

		last, err := s.feeRepo.LatestByDueDate(ctx, nil, enrollment.ID)
		if err != nil {
			return generated, fmt.Errorf("latest fee for %s: %w", enrollment.ID, err)
		}
		if last == nil {
			// Paying enrollments get their first fee at enrollment time;
			// one with no fee history at all is malformed data, not a
			// billing anchor.
			s.log.Warn("skipping enrollment without fee history",
				"enrollment_id", enrollment.ID)
			continue
		}
		nextDue := NextDueDate(last.DueDate)
		if !InGenerationWindow(nextDue, today) {
			continue
		}

		exists, err := s.feeRepo.ExistsForDueDate(ctx, nil, enrollment.ID, nextDue)
		if err != nil {
			return generated, fmt.Errorf("check fee for %s: %w", enrollment.ID, err)
		}
		if exists {
			continue
		}

		fee := &domain.TuitionFee{
			ID:           uuid.New(),
			EnrollmentID: enrollment.ID,
			Amount:       amount,
			DueDate:      nextDue,
			Status:       domain.FeePending,
		}
		if err := s.feeRepo.Create(ctx, nil, fee); err != nil {
			return generated, fmt.Errorf("create fee for %s: %w", enrollment.ID, err)
		}
		generated++
		s.log.Info("tuition fee generated",
			"enrollment_id", enrollment.ID,
			"amount", amount,
			"due_date", nextDue.Format("2006-01-02"))
	}
	return generated, nil
}

func (s *billingService) SweepOverdue(ctx context.Context, today time.Time) (int, error) {
	fees, err := s.feeRepo.ListPendingDueBefore(ctx, nil, dayStart(today))
	if err != nil {
		return 0, fmt.Errorf("list lapsed fees: %w", err)
	}

	swept := 0
	for _, fee := range fees {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			fee.Status = domain.FeeOverdue
			if err := s.feeRepo.Update(ctx, tx, fee); err != nil {
				return fmt.Errorf("mark fee overdue: %w", err)
			}
			return s.enrollmentRepo.UpdateStatus(ctx, tx, fee.EnrollmentID, domain.EnrollmentInactive)
		})
		if err != nil {
			return swept, fmt.Errorf("sweep fee %s: %w", fee.ID, err)
		}
		swept++
		s.log.Warn("tuition fee overdue, enrollment deactivated",
			"fee_id", fee.ID,
			"enrollment_id", fee.EnrollmentID,
			"due_date", fee.DueDate.Format("2006-01-02"))
	}
	return swept, nil
}

func (s *billingService) MarkPaid(ctx context.Context, feeID uuid.UUID, method, notes string) (*domain.TuitionFee, error) {
	fee, err := s.feeRepo.GetByID(ctx, nil, feeID)
	if err != nil {
		return nil, fmt.Errorf("load fee: %w", err)
	}
	if fee.Status == domain.FeePaid {
		return nil, ErrFeeAlreadyPaid
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		paidAt := s.now()
		fee.Status = domain.FeePaid
		fee.PaidAt = &paidAt
		fee.PaymentMethod = method
		if notes != "" {
			fee.Notes = notes
		}
		if err := s.feeRepo.Update(ctx, tx, fee); err != nil {
			return fmt.Errorf("update fee: %w", err)
		}
		if fee.Enrollment != nil && fee.Enrollment.Status != domain.EnrollmentActive {
			return s.enrollmentRepo.UpdateStatus(ctx, tx, fee.EnrollmentID, domain.EnrollmentActive)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("tuition fee paid",
		"fee_id", fee.ID,
		"enrollment_id", fee.EnrollmentID,
		"amount", fee.Amount,
		"method", method)
	return fee, nil
}

func (s *billingService) Statistics(ctx context.Context) (*TuitionStatistics, error) {
	var stats TuitionStatistics
	now := s.now()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats.PendingCount, err = s.feeRepo.CountByStatus(gctx, nil, domain.FeePending)
		return err
	})
	g.Go(func() error {
		var err error
		stats.PendingAmount, err = s.feeRepo.SumAmountByStatus(gctx, nil, domain.FeePending)
		return err
	})
	g.Go(func() error {
		var err error
		stats.OverdueCount, err = s.feeRepo.CountByStatus(gctx, nil, domain.FeeOverdue)
		return err
	})
	g.Go(func() error {
		var err error
		stats.OverdueAmount, err = s.feeRepo.SumAmountByStatus(gctx, nil, domain.FeeOverdue)
		return err
	})
	g.Go(func() error {
		var err error
		stats.PaidThisMonth, err = s.feeRepo.CountPaidInMonth(gctx, nil, now)
		return err
	})
	g.Go(func() error {
		var err error
		stats.RevenueMonth, err = s.feeRepo.SumPaidInMonth(gctx, nil, now)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("tuition statistics: %w", err)
	}
	return &stats, nil
}

func (s *billingService) CreateFee(ctx context.Context, enrollmentID uuid.UUID, amount float64, dueDate time.Time, notes string) (*domain.TuitionFee, error) {
	if _, err := s.enrollmentRepo.GetByID(ctx, nil, enrollmentID); err != nil {
		return nil, fmt.Errorf("load enrollment: %w", err)
	}
	fee := &domain.TuitionFee{
		ID:           uuid.New(),
		EnrollmentID: enrollmentID,
		Amount:       amount,
		DueDate:      dueDate,
		Status:       domain.FeePending,
		Notes:        notes,
	}
	if err := s.feeRepo.Create(ctx, nil, fee); err != nil {
		return nil, fmt.Errorf("create fee: %w", err)
	}
	return fee, nil
}

func (s *billingService) GetFee(ctx context.Context, feeID uuid.UUID) (*domain.TuitionFee, error) {
	return s.feeRepo.GetByID(ctx, nil, feeID)
}

func (s *billingService) UpdateFee(ctx context.Context, fee *domain.TuitionFee) error {
	return s.feeRepo.Update(ctx, nil, fee)
}

func (s *billingService) DeleteFee(ctx context.Context, feeID uuid.UUID) error {
	return s.feeRepo.Delete(ctx, nil, feeID)
}

func (s *billingService) ListFees(ctx context.Context, filter billing.FeeFilter) ([]*domain.TuitionFee, error) {
	return s.feeRepo.List(ctx, nil, filter)
}

func (s *billingService) ListUserFees(ctx context.Context, userID uuid.UUID) ([]*domain.TuitionFee, error) {
	return s.feeRepo.ListByUser(ctx, nil, userID)
}

func (s *billingService) ListUserOutstandingFees(ctx context.Context, userID uuid.UUID) ([]*domain.TuitionFee, error) {
	fees, err := s.feeRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	outstanding := make([]*domain.TuitionFee, 0, len(fees))
	for _, fee := range fees {
		if fee.Status == domain.FeePending || fee.Status == domain.FeeOverdue {
			outstanding = append(outstanding, fee)
		}
	}
	return outstanding, nil
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
