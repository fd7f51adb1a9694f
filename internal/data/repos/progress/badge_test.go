package progress

import (
	"context"
	"testing"
	"time"

	"github.com/lumalingo/lumalingo-backend/internal/data/repos/testutil"
)

func TestBadgeGrantIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewBadgeRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := testutil.SeedUser(t, tx, "student")
	course := testutil.SeedCourse(t, tx, 0, false)
	badge := testutil.SeedBadge(t, tx, course.ID, 5)

	granted, err := repo.Grant(ctx, tx, user.ID, badge.ID, time.Now())
	if err != nil {
		t.Fatalf("first grant: %v", err)
	}
	if !granted {
		t.Fatalf("expected first grant to insert")
	}

	granted, err = repo.Grant(ctx, tx, user.ID, badge.ID, time.Now())
	if err != nil {
		t.Fatalf("second grant: %v", err)
	}
	if granted {
		t.Fatalf("expected second grant to be a no-op")
	}

	rows, err := repo.ListUserBadges(ctx, tx, user.ID, nil)
	if err != nil {
		t.Fatalf("list user badges: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected exactly one badge row, got %d", len(rows))
	}
}

func TestListUnheldReachedExcludesHeldAndUnreached(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewBadgeRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := testutil.SeedUser(t, tx, "student")
	course := testutil.SeedCourse(t, tx, 0, false)
	held := testutil.SeedBadge(t, tx, course.ID, 1)
	reachable := testutil.SeedBadge(t, tx, course.ID, 3)
	testutil.SeedBadge(t, tx, course.ID, 10)

	if _, err := repo.Grant(ctx, tx, user.ID, held.ID, time.Now()); err != nil {
		t.Fatalf("grant: %v", err)
	}

	badges, err := repo.ListUnheldReached(ctx, tx, user.ID, course.ID, 3)
	if err != nil {
		t.Fatalf("list unheld reached: %v", err)
	}
	if len(badges) != 1 {
		t.Fatalf("expected one eligible badge, got %d", len(badges))
	}
	if badges[0].ID != reachable.ID {
		t.Fatalf("expected the 3-lesson badge, got %s", badges[0].Name)
	}
}
