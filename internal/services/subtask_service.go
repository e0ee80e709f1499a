package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"taskmanager/internal/models"
	"taskmanager/internal/repositories"
)

type SubtaskService interface {
	ListAll(ctx context.Context, taskID int64) ([]models.Subtask, error)
	List(ctx context.Context, taskID int64, page models.PageRequest) (models.Page[models.Subtask], error)
	Get(ctx context.Context, taskID, id int64) (*models.Subtask, error)
	Create(ctx context.Context, taskID int64, in models.SubtaskInput) (*models.Subtask, error)
	Update(ctx context.Context, taskID, id int64, in models.SubtaskInput) (*models.Subtask, error)
	Patch(ctx context.Context, taskID, id int64, patch models.SubtaskPatch) (*models.Subtask, error)
	Delete(ctx context.Context, taskID, id int64) error
}

// subtaskService re-derives the parent status after every mutation, inside
// the same transaction as the mutation itself.
type subtaskService struct {
	store  *repositories.Store
	ledger *HistoryLedger
	engine *StatusEngine
	cache  *TaskCache
}

func NewSubtaskService(store *repositories.Store, ledger *HistoryLedger, engine *StatusEngine, cache *TaskCache) SubtaskService {
	return &subtaskService{store: store, ledger: ledger, engine: engine, cache: cache}
}

func subtaskLabel(field string, id int64) string {
	return fmt.Sprintf("%s [Subtask #%d]", field, id)
}

func (s *subtaskService) requireTask(ctx context.Context, store *repositories.Store, taskID int64) error {
	ok, err := store.Tasks.Exists(ctx, taskID)
	if err != nil {
		return err
	}
	if !ok {
		return notFound("task", taskID)
	}
	return nil
}

func (s *subtaskService) ListAll(ctx context.Context, taskID int64) ([]models.Subtask, error) {
	if err := s.requireTask(ctx, s.store, taskID); err != nil {
		return nil, err
	}
	list, err := s.store.Subtasks.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Subtask{}
	}
	return list, nil
}

func (s *subtaskService) List(ctx context.Context, taskID int64, page models.PageRequest) (models.Page[models.Subtask], error) {
	if err := s.requireTask(ctx, s.store, taskID); err != nil {
		return models.Page[models.Subtask]{}, err
	}
	page = page.Normalize()
	list, total, err := s.store.Subtasks.Page(ctx, taskID, page)
	if err != nil {
		return models.Page[models.Subtask]{}, err
	}
	return models.NewPage(list, page, total), nil
}

func (s *subtaskService) Get(ctx context.Context, taskID, id int64) (*models.Subtask, error) {
	if err := s.requireTask(ctx, s.store, taskID); err != nil {
		return nil, err
	}
	return s.store.Subtasks.FindByIDAndTask(ctx, id, taskID)
}

func (s *subtaskService) Create(ctx context.Context, taskID int64, in models.SubtaskInput) (*models.Subtask, error) {
	st := &models.Subtask{
		TaskID:      taskID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Completed:   in.IsCompleted(),
	}
	err := s.mutate(ctx, taskID, func(tx *repositories.Store) error {
		if st.Title == "" {
			return invalid("title must not be blank")
		}
		return tx.Subtasks.Create(ctx, st)
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// Update replaces every field of the subtask. An omitted completed means false.
func (s *subtaskService) Update(ctx context.Context, taskID, id int64, in models.SubtaskInput) (*models.Subtask, error) {
	title := in.Title
	completed := in.IsCompleted()
	return s.apply(ctx, taskID, id, models.SubtaskPatch{
		Title:       &title,
		Description: &in.Description,
		Completed:   &completed,
	})
}

// Patch changes only the fields present in patch. Existence is checked
// before the title, so a missing subtask reports NotFound.
func (s *subtaskService) Patch(ctx context.Context, taskID, id int64, patch models.SubtaskPatch) (*models.Subtask, error) {
	return s.apply(ctx, taskID, id, patch)
}

func (s *subtaskService) apply(ctx context.Context, taskID, id int64, patch models.SubtaskPatch) (*models.Subtask, error) {
	var st *models.Subtask
	err := s.mutate(ctx, taskID, func(tx *repositories.Store) error {
		cur, err := tx.Subtasks.FindByIDAndTask(ctx, id, taskID)
		if err != nil {
			return err
		}
		if patch.Title != nil {
			title := strings.TrimSpace(*patch.Title)
			if title == "" {
				return invalid("title must not be blank")
			}
			patch.Title = &title
		}
		if patch.Title != nil && *patch.Title != cur.Title {
			if err := s.ledger.RecordChange(ctx, tx.History, taskID,
				subtaskLabel(models.FieldSubtaskTitle, id), cur.Title, *patch.Title); err != nil {
				return err
			}
			cur.Title = *patch.Title
		}
		if patch.Completed != nil && *patch.Completed != cur.Completed {
			if err := s.ledger.RecordChange(ctx, tx.History, taskID,
				subtaskLabel(models.FieldSubtaskCompletion, id),
				strconv.FormatBool(cur.Completed), strconv.FormatBool(*patch.Completed)); err != nil {
				return err
			}
			cur.Completed = *patch.Completed
		}
		if patch.Description != nil {
			cur.Description = *patch.Description
		}
		if err := tx.Subtasks.Update(ctx, cur); err != nil {
			return err
		}
		st = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (s *subtaskService) Delete(ctx context.Context, taskID, id int64) error {
	return s.mutate(ctx, taskID, func(tx *repositories.Store) error {
		cur, err := tx.Subtasks.FindByIDAndTask(ctx, id, taskID)
		if err != nil {
			return err
		}
		if err := tx.Subtasks.Delete(ctx, id); err != nil {
			return err
		}
		return s.ledger.RecordChange(ctx, tx.History, taskID,
			subtaskLabel(models.FieldSubtaskDeleted, id), cur.Title, "DELETED")
	})
}

// mutate runs fn and the status re-derivation as one transaction.
func (s *subtaskService) mutate(ctx context.Context, taskID int64, fn func(tx *repositories.Store) error) error {
	err := s.store.InTx(ctx, func(tx *repositories.Store) error {
		if err := s.requireTask(ctx, tx, taskID); err != nil {
			return err
		}
		if err := fn(tx); err != nil {
			return err
		}
		_, err := s.engine.Reevaluate(ctx, tx, taskID)
		return err
	})
	if err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}
