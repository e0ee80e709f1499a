package services

import (
	"context"
	"log"
	"sort"
	"strings"

	"taskmanager/internal/models"
	"taskmanager/internal/repositories"
)

// TaskService defines the task-level business operations.
type TaskService interface {
	Create(ctx context.Context, in models.TaskInput) (*models.Task, error)
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	GetAll(ctx context.Context) ([]models.Task, error)
	List(ctx context.Context, filter models.TaskFilter, page models.PageRequest) (models.Page[models.Task], error)
	Search(ctx context.Context, query string, page models.PageRequest) (models.Page[models.Task], error)
	Update(ctx context.Context, id int64, in models.TaskInput) (*models.Task, error)
	Archive(ctx context.Context, id int64) (*models.Task, error)
	Restore(ctx context.Context, id int64) (*models.Task, error)
	PermanentDelete(ctx context.Context, id int64) error
}

type taskService struct {
	store  *repositories.Store
	ledger *HistoryLedger
	cache  *TaskCache
	blobs  BlobStore
}

// NewTaskService creates a new instance of TaskService. blobs may be nil when
// attachment content is not stored locally.
func NewTaskService(store *repositories.Store, ledger *HistoryLedger, cache *TaskCache, blobs BlobStore) TaskService {
	return &taskService{store: store, ledger: ledger, cache: cache, blobs: blobs}
}

func validateTaskInput(in models.TaskInput) error {
	if isBlank(in.Title) {
		return invalid("title must not be blank")
	}
	if !in.Status.IsValid() {
		return invalid("invalid status %q", in.Status)
	}
	if !in.Priority.IsValid() {
		return invalid("invalid priority %q", in.Priority)
	}
	for i, st := range in.Subtasks {
		if isBlank(st.Title) {
			return invalid("subtask %d: title must not be blank", i)
		}
	}
	return nil
}

// normalizeTags trims, drops empties and deduplicates.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func (s *taskService) Create(ctx context.Context, in models.TaskInput) (*models.Task, error) {
	if err := validateTaskInput(in); err != nil {
		return nil, err
	}
	now := s.ledger.now()
	task := &models.Task{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		Tags:        normalizeTags(in.Tags),
		Subtasks:    []models.Subtask{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.store.InTx(ctx, func(tx *repositories.Store) error {
		if err := tx.Tasks.Create(ctx, task); err != nil {
			return err
		}
		if err := tx.Tasks.ReplaceTags(ctx, task.ID, task.Tags); err != nil {
			return err
		}
		for _, sub := range in.Subtasks {
			st := models.Subtask{
				TaskID:      task.ID,
				Title:       strings.TrimSpace(sub.Title),
				Description: sub.Description,
				Completed:   sub.IsCompleted(),
			}
			if err := tx.Subtasks.Create(ctx, &st); err != nil {
				return err
			}
			task.Subtasks = append(task.Subtasks, st)
		}
		return s.ledger.Record(ctx, tx.History, task.ID, models.FieldCreated, nil, ptr("Task created"))
	})
	if err != nil {
		log.Printf("[task][create][err] %v", err)
		return nil, err
	}
	s.cache.Invalidate()
	log.Printf("[task][create][ok] id=%d", task.ID)
	return task, nil
}

func (s *taskService) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	return loadTask(ctx, s.store, id)
}

// GetAll returns every non-archived task, newest first, from the cache when warm.
func (s *taskService) GetAll(ctx context.Context) ([]models.Task, error) {
	if tasks, ok := s.cache.Get(allTasksKey); ok {
		return tasks, nil
	}
	gen := s.cache.Generation()
	tasks, err := s.store.Tasks.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := hydrate(ctx, s.store, tasks); err != nil {
		return nil, err
	}
	s.cache.Put(allTasksKey, gen, tasks)
	return tasks, nil
}

func (s *taskService) List(ctx context.Context, filter models.TaskFilter, page models.PageRequest) (models.Page[models.Task], error) {
	page = page.Normalize()
	tasks, total, err := s.store.Tasks.List(ctx, filter, page)
	if err != nil {
		return models.Page[models.Task]{}, err
	}
	if err := hydrate(ctx, s.store, tasks); err != nil {
		return models.Page[models.Task]{}, err
	}
	return models.NewPage(tasks, page, total), nil
}

func (s *taskService) Search(ctx context.Context, query string, page models.PageRequest) (models.Page[models.Task], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.Page[models.Task]{}, invalid("query must not be blank")
	}
	return s.List(ctx, models.TaskFilter{Query: &query}, page)
}

func (s *taskService) Update(ctx context.Context, id int64, in models.TaskInput) (*models.Task, error) {
	if err := validateTaskInput(in); err != nil {
		return nil, err
	}

	var task *models.Task
	err := s.store.InTx(ctx, func(tx *repositories.Store) error {
		existing, err := loadTask(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.logFieldChanges(ctx, tx, existing, in); err != nil {
			return err
		}

		existing.Title = strings.TrimSpace(in.Title)
		existing.Description = in.Description
		existing.Status = in.Status
		existing.Priority = in.Priority
		existing.DueDate = in.DueDate
		existing.UpdatedAt = s.ledger.now()
		if err := tx.Tasks.Update(ctx, existing); err != nil {
			return err
		}

		if in.Tags != nil {
			existing.Tags = normalizeTags(in.Tags)
			if err := tx.Tasks.ReplaceTags(ctx, id, existing.Tags); err != nil {
				return err
			}
		}
		if in.Subtasks != nil {
			merged, err := reconcileSubtasks(ctx, tx, id, existing.Subtasks, in.Subtasks)
			if err != nil {
				return err
			}
			existing.Subtasks = merged
		}
		task = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate()
	return task, nil
}

func (s *taskService) logFieldChanges(ctx context.Context, tx *repositories.Store, existing *models.Task, in models.TaskInput) error {
	title := strings.TrimSpace(in.Title)
	if existing.Title != title {
		if err := s.ledger.RecordChange(ctx, tx.History, existing.ID, models.FieldTitle, existing.Title, title); err != nil {
			return err
		}
	}
	if existing.Status != in.Status {
		if err := s.ledger.RecordChange(ctx, tx.History, existing.ID, models.FieldStatus, string(existing.Status), string(in.Status)); err != nil {
			return err
		}
	}
	if existing.Priority != in.Priority {
		if err := s.ledger.RecordChange(ctx, tx.History, existing.ID, models.FieldPriority, string(existing.Priority), string(in.Priority)); err != nil {
			return err
		}
	}
	if !models.SameDate(existing.DueDate, in.DueDate) {
		if err := s.ledger.RecordChange(ctx, tx.History, existing.ID, models.FieldDueDate,
			models.FormatDate(existing.DueDate), models.FormatDate(in.DueDate)); err != nil {
			return err
		}
	}
	return nil
}

// reconcileSubtasks matches incoming subtasks to existing ones by id: matches
// are overwritten, the rest inserted, and existing ones left out are removed.
// No history is written and status is not re-derived here.
func reconcileSubtasks(ctx context.Context, tx *repositories.Store, taskID int64, existing []models.Subtask, incoming []models.SubtaskInput) ([]models.Subtask, error) {
	byID := make(map[int64]models.Subtask, len(existing))
	for _, st := range existing {
		byID[st.ID] = st
	}

	kept := make(map[int64]bool, len(incoming))
	merged := make([]models.Subtask, 0, len(incoming))
	for _, in := range incoming {
		st := models.Subtask{
			TaskID:      taskID,
			Title:       strings.TrimSpace(in.Title),
			Description: in.Description,
			Completed:   in.IsCompleted(),
		}
		if in.ID != nil {
			if _, ok := byID[*in.ID]; ok && !kept[*in.ID] {
				st.ID = *in.ID
				if err := tx.Subtasks.Update(ctx, &st); err != nil {
					return nil, err
				}
				kept[st.ID] = true
				merged = append(merged, st)
				continue
			}
		}
		if err := tx.Subtasks.Create(ctx, &st); err != nil {
			return nil, err
		}
		kept[st.ID] = true
		merged = append(merged, st)
	}

	for _, st := range existing {
		if kept[st.ID] {
			continue
		}
		if err := tx.Subtasks.Delete(ctx, st.ID); err != nil {
			return nil, err
		}
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ID < merged[j].ID })
	return merged, nil
}

func (s *taskService) Archive(ctx context.Context, id int64) (*models.Task, error) {
	return s.setArchived(ctx, id, true)
}

func (s *taskService) Restore(ctx context.Context, id int64) (*models.Task, error) {
	return s.setArchived(ctx, id, false)
}

// setArchived logs on every call, even when the flag already has the target value.
func (s *taskService) setArchived(ctx context.Context, id int64, archived bool) (*models.Task, error) {
	var task *models.Task
	err := s.store.InTx(ctx, func(tx *repositories.Store) error {
		t, err := loadTask(ctx, tx, id)
		if err != nil {
			return err
		}
		t.Archived = archived
		t.UpdatedAt = s.ledger.now()
		if err := tx.Tasks.SetArchived(ctx, t); err != nil {
			return err
		}
		if archived {
			err = s.ledger.RecordChange(ctx, tx.History, id, models.FieldArchived, "false", "true")
		} else {
			err = s.ledger.RecordChange(ctx, tx.History, id, models.FieldRestored, "true", "false")
		}
		if err != nil {
			return err
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate()
	log.Printf("[task][archive] id=%d archived=%v", id, archived)
	return task, nil
}

// PermanentDelete removes the task and everything it owns. Attachment content
// is removed after commit; a failure there is logged and does not undo the delete.
func (s *taskService) PermanentDelete(ctx context.Context, id int64) error {
	var attachments []models.Attachment
	err := s.store.InTx(ctx, func(tx *repositories.Store) error {
		ok, err := tx.Tasks.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return notFound("task", id)
		}
		if attachments, err = tx.Attachments.ListByTask(ctx, id); err != nil {
			return err
		}

		if err := tx.Tasks.DeleteTags(ctx, id); err != nil {
			return err
		}
		if err := tx.Subtasks.DeleteByTask(ctx, id); err != nil {
			return err
		}
		if err := tx.Comments.DeleteByTask(ctx, id); err != nil {
			return err
		}
		if err := tx.Attachments.DeleteByTask(ctx, id); err != nil {
			return err
		}
		if err := tx.History.DeleteByTask(ctx, id); err != nil {
			return err
		}
		return tx.Tasks.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.cache.Invalidate()

	if s.blobs != nil {
		for _, a := range attachments {
			if err := s.blobs.Delete(a.URL); err != nil {
				log.Printf("[task][delete][warn] blob %s of task %d: %v", a.URL, id, err)
			}
		}
	}
	log.Printf("[task][delete][ok] id=%d attachments=%d", id, len(attachments))
	return nil
}

func loadTask(ctx context.Context, store *repositories.Store, id int64) (*models.Task, error) {
	task, err := store.Tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	one := []models.Task{*task}
	if err := hydrate(ctx, store, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// hydrate fills Tags and Subtasks in place.
func hydrate(ctx context.Context, store *repositories.Store, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	ids := make([]int64, len(tasks))
	for i := range tasks {
		ids[i] = tasks[i].ID
	}
	tags, err := store.Tasks.TagsFor(ctx, ids)
	if err != nil {
		return err
	}
	subtasks, err := store.Subtasks.ListByTasks(ctx, ids)
	if err != nil {
		return err
	}
	for i := range tasks {
		tasks[i].Tags = tags[tasks[i].ID]
		if tasks[i].Tags == nil {
			tasks[i].Tags = []string{}
		}
		tasks[i].Subtasks = subtasks[tasks[i].ID]
		if tasks[i].Subtasks == nil {
			tasks[i].Subtasks = []models.Subtask{}
		}
	}
	return nil
}

func ptr[T any](v T) *T { return &v }

