package scheduler

import (
	"context"
	"testing"
	"time"

	"taskmanager/internal/models"
	"taskmanager/internal/services"
)

type fakeSweeper struct {
	days []models.Date
}

func (f *fakeSweeper) Run(_ context.Context, today models.Date) (services.SweepResult, error) {
	f.days = append(f.days, today)
	return services.SweepResult{}, nil
}

func TestNewRejectsBadSpec(t *testing.T) {
	if _, err := New("every hour", &fakeSweeper{}); err == nil {
		t.Fatalf("expected invalid cron expression error")
	}
}

func TestRunOncePassesToday(t *testing.T) {
	sw := &fakeSweeper{}
	s, err := New("", sw)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	s.now = func() time.Time { return time.Date(2024, 1, 2, 13, 0, 0, 0, time.UTC) }
	s.runOnce()

	if len(sw.days) != 1 || sw.days[0] != models.NewDate(2024, time.January, 2) {
		t.Fatalf("unexpected days %v", sw.days)
	}
}

func TestStartStop(t *testing.T) {
	s, err := New("* * * * * *", &fakeSweeper{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.Stop(ctx)
}
