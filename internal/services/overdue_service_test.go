package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"taskmanager/internal/models"
)

type recordingNotifier struct {
	calls [][]models.Task
	err   error
}

func (r *recordingNotifier) Name() string { return "recording" }

func (r *recordingNotifier) NotifyOverdue(_ context.Context, _ models.Date, tasks []models.Task) error {
	r.calls = append(r.calls, tasks)
	return r.err
}

func TestOverdueSweepIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	due := models.NewDate(2024, time.January, 1)
	task := env.createTask(t, models.TaskInput{Title: "late", Status: models.StatusPending, DueDate: &due})

	failing := &recordingNotifier{err: errors.New("smtp down")}
	sweep := NewOverdueService(env.store, env.engine, env.cache, failing)
	today := models.NewDate(2024, time.January, 2)

	res, err := sweep.Run(ctx, today)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.Examined != 1 || res.Delayed != 1 || res.Failed != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	if got := env.status(t, task.ID); got != models.StatusDelayed {
		t.Fatalf("want DELAYED, got %s", got)
	}
	list := env.historyOf(t, task.ID)
	if n := countField(list, models.FieldStatus); n != 1 {
		t.Fatalf("expected 1 STATUS row, got %d", n)
	}
	if deref(list[0].OldValue) != "PENDING" || deref(list[0].NewValue) != "DELAYED" {
		t.Fatalf("unexpected row %+v", list[0])
	}
	if len(failing.calls) != 1 || len(failing.calls[0]) != 1 {
		t.Fatalf("notifier should see the delayed task once, got %+v", failing.calls)
	}

	res, err = sweep.Run(ctx, today)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if res.Delayed != 0 {
		t.Fatalf("second run must be a no-op, got %+v", res)
	}
	if n := countField(env.historyOf(t, task.ID), models.FieldStatus); n != 1 {
		t.Fatalf("second run wrote history: %d STATUS rows", n)
	}
	if len(failing.calls) != 1 {
		t.Fatalf("nothing new delayed, notifier must not be called again")
	}
}

func TestOverdueSweepSkipsIneligible(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	past := models.NewDate(2023, time.December, 1)
	today := models.NewDate(2024, time.January, 2)

	done := env.createTask(t, models.TaskInput{Title: "done", Status: models.StatusCompleted, DueDate: &past})
	dueToday := env.createTask(t, models.TaskInput{Title: "today", DueDate: &today})
	archived := env.createTask(t, models.TaskInput{Title: "archived", DueDate: &past})
	if _, err := env.tasks.Archive(ctx, archived.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}
	progress := env.createTask(t, models.TaskInput{Title: "wip", Status: models.StatusInProgress, DueDate: &past})

	res, err := NewOverdueService(env.store, env.engine, env.cache).Run(ctx, today)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.Delayed != 1 {
		t.Fatalf("expected only the IN_PROGRESS task to move, got %+v", res)
	}
	for id, want := range map[int64]models.TaskStatus{
		done.ID:     models.StatusCompleted,
		dueToday.ID: models.StatusPending,
		archived.ID: models.StatusPending,
		progress.ID: models.StatusDelayed,
	} {
		if got := env.status(t, id); got != want {
			t.Errorf("task %d: want %s, got %s", id, want, got)
		}
	}
}

func TestOverdueSweepCancelled(t *testing.T) {
	env := newTestEnv(t)
	past := models.NewDate(2023, time.December, 1)
	env.createTask(t, models.TaskInput{Title: "late", DueDate: &past})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewOverdueService(env.store, env.engine, env.cache).Run(ctx, models.NewDate(2024, time.January, 2)); err == nil {
		t.Fatalf("expected context error")
	}
}

// cancelAfter reports Canceled once Err has been asked more than n times.
type cancelAfter struct {
	context.Context
	n     int
	calls int
}

func (c *cancelAfter) Err() error {
	c.calls++
	if c.calls > c.n {
		return context.Canceled
	}
	return nil
}

func TestOverdueSweepCancelledMidwayInvalidatesCache(t *testing.T) {
	env := newTestEnv(t)
	past := models.NewDate(2023, time.December, 1)
	first := env.createTask(t, models.TaskInput{Title: "first", DueDate: &past})
	second := env.createTask(t, models.TaskInput{Title: "second", DueDate: &past})

	if _, err := env.tasks.GetAll(context.Background()); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	notifier := &recordingNotifier{}
	sweep := NewOverdueService(env.store, env.engine, env.cache, notifier)
	ctx := &cancelAfter{Context: context.Background(), n: 1}
	res, err := sweep.Run(ctx, models.NewDate(2024, time.January, 2))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res.Delayed != 1 {
		t.Fatalf("expected one committed transition, got %+v", res)
	}

	all, err := env.tasks.GetAll(context.Background())
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	want := map[int64]models.TaskStatus{first.ID: models.StatusDelayed, second.ID: models.StatusPending}
	for _, task := range all {
		if task.Status != want[task.ID] {
			t.Errorf("task %d: listing says %s, want %s", task.ID, task.Status, want[task.ID])
		}
	}
	if len(notifier.calls) != 1 || len(notifier.calls[0]) != 1 || notifier.calls[0][0].ID != first.ID {
		t.Fatalf("notifier should see the committed task, got %+v", notifier.calls)
	}
}

func TestOverdueSweepContinuesPastFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	past := models.NewDate(2023, time.December, 1)
	broken := env.createTask(t, models.TaskInput{Title: "broken", DueDate: &past})
	healthy := env.createTask(t, models.TaskInput{Title: "healthy", DueDate: &past})

	trigger := fmt.Sprintf(`CREATE TRIGGER reject_update BEFORE UPDATE ON tasks WHEN NEW.id = %d
BEGIN SELECT RAISE(ABORT, 'rejected'); END`, broken.ID)
	if _, err := env.store.DB().ExecContext(ctx, trigger); err != nil {
		t.Fatalf("install trigger: %v", err)
	}

	res, err := NewOverdueService(env.store, env.engine, env.cache).Run(ctx, models.NewDate(2024, time.January, 2))
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.Examined != 2 || res.Failed != 1 || res.Delayed != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if got := env.status(t, broken.ID); got != models.StatusPending {
		t.Errorf("failed task must keep its status, got %s", got)
	}
	if got := env.status(t, healthy.ID); got != models.StatusDelayed {
		t.Errorf("remaining task must still be swept, got %s", got)
	}
	if n := countField(env.historyOf(t, broken.ID), models.FieldStatus); n != 0 {
		t.Errorf("failed task got %d STATUS rows", n)
	}
	if n := countField(env.historyOf(t, healthy.ID), models.FieldStatus); n != 1 {
		t.Errorf("swept task got %d STATUS rows", n)
	}
}
