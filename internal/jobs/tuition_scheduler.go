package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/lumalingo/lumalingo-backend/internal/clients/redis"
	"github.com/lumalingo/lumalingo-backend/internal/pkg/logger"
	"github.com/lumalingo/lumalingo-backend/internal/services"
)

// TuitionScheduler runs the two daily billing sweeps: fee generation in the
// early-morning slot and the overdue sweep one hour later. Each run is
// guarded by a day-scoped run lock so multiple replicas do not double-run.
type TuitionScheduler struct {
	log     *logger.Logger
	billing services.BillingService
	lock    redis.RunLock

	generateAt string
	sweepAt    string
	now        func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewTuitionScheduler(
	log *logger.Logger,
	billing services.BillingService,
	lock redis.RunLock,
	generateAt, sweepAt string,
) *TuitionScheduler {
	if generateAt == "" {
		generateAt = "01:00"
	}
	if sweepAt == "" {
		sweepAt = "02:00"
	}
	return &TuitionScheduler{
		log:        log.With("job", "TuitionScheduler"),
		billing:    billing,
		lock:       lock,
		generateAt: generateAt,
		sweepAt:    sweepAt,
		now:        time.Now,
	}
}

// Start launches the two daily loops. Call Stop to shut them down.
func (s *TuitionScheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(2)
	go s.loop(ctx, "tuition_generate", s.generateAt, func(ctx context.Context, today time.Time) {
		n, err := s.billing.GenerateDueFees(ctx, today)
		if err != nil {
			s.log.Error("fee generation failed", "error", err)
			return
		}
		s.log.Info("fee generation finished", "generated", n)
	})
	go s.loop(ctx, "tuition_sweep", s.sweepAt, func(ctx context.Context, today time.Time) {
		n, err := s.billing.SweepOverdue(ctx, today)
		if err != nil {
			s.log.Error("overdue sweep failed", "error", err)
			return
		}
		s.log.Info("overdue sweep finished", "swept", n)
	})
	s.log.Info("tuition scheduler started", "generate_at", s.generateAt, "sweep_at", s.sweepAt)
}

func (s *TuitionScheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.log.Info("tuition scheduler stopped")
}

func (s *TuitionScheduler) loop(ctx context.Context, name, at string, run func(context.Context, time.Time)) {
	defer s.wg.Done()
	for {
		wait := untilNext(s.now(), at)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		today := s.now()
		ok, err := s.lock.Acquire(ctx, name, today)
		if err != nil {
			s.log.Error("run lock unavailable, skipping run", "run", name, "error", err)
			continue
		}
		if !ok {
			continue
		}
		s.log.Info("scheduled run starting", "run", name, "day", today.Format("2006-01-02"))
		run(ctx, today)
	}
}

// untilNext returns the duration until the next occurrence of the wall-clock
// time "HH:MM". Malformed input falls back to a one-hour retry.
func untilNext(now time.Time, at string) time.Duration {
	target, err := time.ParseInLocation("15:04", at, now.Location())
	if err != nil {
		return time.Hour
	}
	next := time.Date(now.Year(), now.Month(), now.Day(), target.Hour(), target.Minute(), 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
