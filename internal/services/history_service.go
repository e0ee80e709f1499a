package services

import (
	"context"
	"io"
	"time"

	"taskmanager/internal/models"
	"taskmanager/internal/repositories"
)

// HistoryLedger appends audit rows. It does not compare values: callers
// only call it for real transitions.
type HistoryLedger struct {
	now func() time.Time
}

func NewHistoryLedger() *HistoryLedger {
	return &HistoryLedger{now: func() time.Time { return time.Now().UTC() }}
}

func (l *HistoryLedger) Record(ctx context.Context, repo repositories.HistoryRepository, taskID int64, field string, oldValue, newValue *string) error {
	return repo.Append(ctx, &models.TaskHistory{
		TaskID:       taskID,
		FieldChanged: field,
		OldValue:     oldValue,
		NewValue:     newValue,
		ChangedAt:    l.now(),
	})
}

func (l *HistoryLedger) RecordChange(ctx context.Context, repo repositories.HistoryRepository, taskID int64, field, oldValue, newValue string) error {
	return l.Record(ctx, repo, taskID, field, &oldValue, &newValue)
}

// ReportRenderer writes a task's audit trail as a document.
type ReportRenderer interface {
	Render(w io.Writer, task *models.Task, history []models.TaskHistory) error
}

type HistoryService interface {
	GetTaskHistory(ctx context.Context, taskID int64) ([]models.TaskHistory, error)
	Report(ctx context.Context, taskID int64, w io.Writer) error
}

type historyService struct {
	store    *repositories.Store
	renderer ReportRenderer
}

func NewHistoryService(store *repositories.Store, renderer ReportRenderer) HistoryService {
	return &historyService{store: store, renderer: renderer}
}

func (s *historyService) GetTaskHistory(ctx context.Context, taskID int64) ([]models.TaskHistory, error) {
	ok, err := s.store.Tasks.Exists(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound("task", taskID)
	}
	return s.store.History.ListByTask(ctx, taskID)
}

func (s *historyService) Report(ctx context.Context, taskID int64, w io.Writer) error {
	task, err := s.store.Tasks.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	history, err := s.store.History.ListByTask(ctx, taskID)
	if err != nil {
		return err
	}
	return s.renderer.Render(w, task, history)
}
