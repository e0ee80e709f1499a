package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"taskmanager/internal/models"
	"taskmanager/internal/services"
)

const DefaultSpec = "0 0 * * * *"

// Sweeper is the single entry point the scheduler drives.
type Sweeper interface {
	Run(ctx context.Context, today models.Date) (services.SweepResult, error)
}

// Scheduler triggers the overdue sweep on a cron spec with a seconds field.
// A run that is still going when the next tick fires causes that tick to be skipped.
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	timeout time.Duration
	now     func() time.Time
}

func New(spec string, sweeper Sweeper) (*Scheduler, error) {
	if spec == "" {
		spec = DefaultSpec
	}
	s := &Scheduler{
		sweeper: sweeper,
		timeout: 10 * time.Minute,
		now:     time.Now,
	}
	s.cron = cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
		return nil, fmt.Errorf("invalid overdue cron spec %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := s.sweeper.Run(ctx, models.DateOf(s.now())); err != nil {
		log.Printf("[scheduler][sweep][err] %v", err)
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Printf("[scheduler] started")
}

// Stop waits for a running sweep to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		log.Printf("[scheduler][warn] stop: %v", ctx.Err())
	}
}
