package services

import (
	"context"
	"log"

	"taskmanager/internal/models"
	"taskmanager/internal/repositories"
)

// OverdueNotifier is told about the tasks one sweep moved to DELAYED.
type OverdueNotifier interface {
	Name() string
	NotifyOverdue(ctx context.Context, today models.Date, tasks []models.Task) error
}

type SweepResult struct {
	Examined int           `json:"examined"`
	Delayed  int           `json:"delayed"`
	Failed   int           `json:"failed"`
	Tasks    []models.Task `json:"-"`
}

type OverdueService struct {
	store     *repositories.Store
	engine    *StatusEngine
	cache     *TaskCache
	notifiers []OverdueNotifier
}

func NewOverdueService(store *repositories.Store, engine *StatusEngine, cache *TaskCache, notifiers ...OverdueNotifier) *OverdueService {
	return &OverdueService{store: store, engine: engine, cache: cache, notifiers: notifiers}
}

// Run marks every non-archived, not completed task due before today as DELAYED.
// Each task is its own transaction; one failing does not stop the rest.
func (s *OverdueService) Run(ctx context.Context, today models.Date) (SweepResult, error) {
	var res SweepResult
	candidates, err := s.store.Tasks.ListOverdue(ctx, today)
	if err != nil {
		log.Printf("[sweep][err] list overdue: %v", err)
		return res, err
	}
	log.Printf("[sweep] today=%s candidates=%d", today, len(candidates))

	var runErr error
	for _, c := range candidates {
		if runErr = ctx.Err(); runErr != nil {
			break
		}
		res.Examined++
		if c.Status == models.StatusDelayed {
			continue
		}

		var moved *models.Task
		err := s.store.InTx(ctx, func(tx *repositories.Store) error {
			task, err := tx.Tasks.FindByID(ctx, c.ID)
			if err != nil {
				return err
			}
			changed, err := s.engine.Transition(ctx, tx, task, models.StatusDelayed)
			if err != nil {
				return err
			}
			if changed {
				moved = task
			}
			return nil
		})
		if err != nil {
			res.Failed++
			log.Printf("[sweep][err] task=%d: %v", c.ID, err)
			continue
		}
		if moved != nil {
			res.Delayed++
			res.Tasks = append(res.Tasks, *moved)
		}
	}

	// transitions committed before a cancellation still count
	if res.Delayed > 0 {
		s.cache.Invalidate()
		s.notify(ctx, today, res.Tasks)
	}
	if runErr != nil {
		log.Printf("[sweep][warn] stopped early: %v examined=%d delayed=%d", runErr, res.Examined, res.Delayed)
		return res, runErr
	}
	log.Printf("[sweep][ok] examined=%d delayed=%d failed=%d", res.Examined, res.Delayed, res.Failed)
	return res, nil
}

func (s *OverdueService) notify(ctx context.Context, today models.Date, tasks []models.Task) {
	for _, n := range s.notifiers {
		if err := n.NotifyOverdue(ctx, today, tasks); err != nil {
			log.Printf("[sweep][notify][warn] %s: %v", n.Name(), err)
		}
	}
}
