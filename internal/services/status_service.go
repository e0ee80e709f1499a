package services

import (
	"context"

	"taskmanager/internal/models"
	"taskmanager/internal/repositories"
)

// DeriveStatus computes a task's status from its subtasks.
//
// With no subtasks the task is PENDING unless it was already COMPLETED.
// All completed gives COMPLETED, some completed gives IN_PROGRESS. When
// none are completed a COMPLETED task drops back to IN_PROGRESS and any
// other status is kept.
func DeriveStatus(current models.TaskStatus, subtasks []models.Subtask) models.TaskStatus {
	if len(subtasks) == 0 {
		if current == models.StatusCompleted {
			return current
		}
		return models.StatusPending
	}

	done := 0
	for _, s := range subtasks {
		if s.Completed {
			done++
		}
	}
	switch {
	case done == len(subtasks):
		return models.StatusCompleted
	case done > 0:
		return models.StatusInProgress
	case current == models.StatusCompleted:
		return models.StatusInProgress
	default:
		return current
	}
}

// StatusEngine applies status changes together with their STATUS history row.
// It always runs on a transaction-bound Store owned by the caller.
type StatusEngine struct {
	ledger *HistoryLedger
}

func NewStatusEngine(ledger *HistoryLedger) *StatusEngine {
	return &StatusEngine{ledger: ledger}
}

// Reevaluate re-derives the status of taskID from its current subtask set.
func (e *StatusEngine) Reevaluate(ctx context.Context, tx *repositories.Store, taskID int64) (*models.Task, error) {
	task, err := tx.Tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	subtasks, err := tx.Subtasks.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := e.Transition(ctx, tx, task, DeriveStatus(task.Status, subtasks)); err != nil {
		return nil, err
	}
	task.Subtasks = subtasks
	return task, nil
}

// Transition moves task to status `to`. It reports false and writes nothing
// when the task already has that status.
func (e *StatusEngine) Transition(ctx context.Context, tx *repositories.Store, task *models.Task, to models.TaskStatus) (bool, error) {
	from := task.Status
	if from == to {
		return false, nil
	}
	task.Status = to
	task.UpdatedAt = e.ledger.now()
	if err := tx.Tasks.UpdateStatus(ctx, task); err != nil {
		task.Status = from
		return false, err
	}
	if err := e.ledger.RecordChange(ctx, tx.History, task.ID, models.FieldStatus, string(from), string(to)); err != nil {
		return false, err
	}
	return true, nil
}
