package billing

import (
	"context"
	"testing"
	"time"

	"github.com/lumalingo/lumalingo-backend/internal/data/repos/testutil"
	"github.com/lumalingo/lumalingo-backend/internal/domain"
)

func TestLatestByDueDateAndExistsForDueDate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewTuitionFeeRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := testutil.SeedUser(t, tx, "student")
	course := testutil.SeedCourse(t, tx, 50, true)
	enr := testutil.SeedEnrollment(t, tx, user.ID, course.ID, domain.EnrollmentActive)

	older := time.Date(2026, 7, 15, 1, 0, 0, 0, time.UTC)
	newer := older.AddDate(0, 1, 0)
	testutil.SeedFee(t, tx, enr.ID, 50, older, domain.FeePaid)
	testutil.SeedFee(t, tx, enr.ID, 50, newer, domain.FeePending)

	latest, err := repo.LatestByDueDate(ctx, tx, enr.ID)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil || !latest.DueDate.Equal(newer) {
		t.Fatalf("expected latest fee due %v, got %+v", newer, latest)
	}

	exists, err := repo.ExistsForDueDate(ctx, tx, enr.ID, newer)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Fatalf("expected a fee for %v", newer)
	}
	exists, err = repo.ExistsForDueDate(ctx, tx, enr.ID, newer.AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatalf("expected no fee one month later")
	}
}

func TestListPendingDueBeforeSelectsOnlyLapsedPending(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewTuitionFeeRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := testutil.SeedUser(t, tx, "student")
	course := testutil.SeedCourse(t, tx, 50, true)
	enr := testutil.SeedEnrollment(t, tx, user.ID, course.ID, domain.EnrollmentActive)

	today := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)
	lapsed := testutil.SeedFee(t, tx, enr.ID, 50, today.AddDate(0, 0, -3), domain.FeePending)
	testutil.SeedFee(t, tx, enr.ID, 50, today.AddDate(0, 0, -10), domain.FeePaid)
	testutil.SeedFee(t, tx, enr.ID, 50, today.AddDate(0, 0, 5), domain.FeePending)

	fees, err := repo.ListPendingDueBefore(ctx, tx, today)
	if err != nil {
		t.Fatalf("list pending due before: %v", err)
	}
	if len(fees) != 1 {
		t.Fatalf("expected one lapsed pending fee, got %d", len(fees))
	}
	if fees[0].ID != lapsed.ID {
		t.Fatalf("expected the lapsed fee, got %s", fees[0].ID)
	}
	if fees[0].Enrollment == nil {
		t.Fatalf("expected the enrollment to be preloaded")
	}
}

func TestStatisticsAggregates(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewTuitionFeeRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := testutil.SeedUser(t, tx, "student")
	course := testutil.SeedCourse(t, tx, 50, true)
	enr := testutil.SeedEnrollment(t, tx, user.ID, course.ID, domain.EnrollmentActive)

	day := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	paid := testutil.SeedFee(t, tx, enr.ID, 40, day, domain.FeePaid)
	paid.PaidAt = &day
	if err := repo.Update(ctx, tx, paid); err != nil {
		t.Fatalf("update paid fee: %v", err)
	}
	testutil.SeedFee(t, tx, enr.ID, 60, day.AddDate(0, 1, 0), domain.FeePending)

	count, err := repo.CountByStatus(ctx, tx, domain.FeePending)
	if err != nil {
		t.Fatalf("count pending: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 pending fee, got %d", count)
	}

	sum, err := repo.SumAmountByStatus(ctx, tx, domain.FeePending)
	if err != nil {
		t.Fatalf("sum pending: %v", err)
	}
	if sum != 60 {
		t.Fatalf("expected pending sum 60, got %v", sum)
	}

	paidCount, err := repo.CountPaidInMonth(ctx, tx, day)
	if err != nil {
		t.Fatalf("count paid in month: %v", err)
	}
	if paidCount != 1 {
		t.Fatalf("expected 1 fee paid in month, got %d", paidCount)
	}
	paidSum, err := repo.SumPaidInMonth(ctx, tx, day)
	if err != nil {
		t.Fatalf("sum paid in month: %v", err)
	}
	if paidSum != 40 {
		t.Fatalf("expected paid sum 40, got %v", paidSum)
	}
}
