package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskmanager/internal/models"
)

type SubtaskRepository interface {
	Create(ctx context.Context, s *models.Subtask) error
	FindByIDAndTask(ctx context.Context, id, taskID int64) (*models.Subtask, error)
	ListByTask(ctx context.Context, taskID int64) ([]models.Subtask, error)
	ListByTasks(ctx context.Context, taskIDs []int64) (map[int64][]models.Subtask, error)
	Page(ctx context.Context, taskID int64, page models.PageRequest) ([]models.Subtask, int64, error)
	Update(ctx context.Context, s *models.Subtask) error
	Delete(ctx context.Context, id int64) error
	DeleteByTask(ctx context.Context, taskID int64) error
}

type subtaskRepository struct {
	db DBTX
}

func NewSubtaskRepository(db DBTX) SubtaskRepository {
	return &subtaskRepository{db: db}
}

var subtaskSortColumns = map[string]string{
	"id":        "id",
	"title":     "title",
	"completed": "completed",
}

func (r *subtaskRepository) Create(ctx context.Context, s *models.Subtask) error {
	const q = `
		INSERT INTO subtasks (task_id, title, description, completed)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, q, s.TaskID, s.Title, s.Description, s.Completed).Scan(&s.ID); err != nil {
		return fmt.Errorf("create subtask: %w", err)
	}
	return nil
}

func (r *subtaskRepository) FindByIDAndTask(ctx context.Context, id, taskID int64) (*models.Subtask, error) {
	const q = `SELECT id, task_id, title, description, completed FROM subtasks WHERE id=$1 AND task_id=$2`
	var s models.Subtask
	err := r.db.QueryRowContext(ctx, q, id, taskID).Scan(&s.ID, &s.TaskID, &s.Title, &s.Description, &s.Completed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("subtask %d of task %d: %w", id, taskID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get subtask: %w", err)
	}
	return &s, nil
}

func (r *subtaskRepository) ListByTask(ctx context.Context, taskID int64) ([]models.Subtask, error) {
	const q = `SELECT id, task_id, title, description, completed FROM subtasks WHERE task_id=$1 ORDER BY id`
	return r.query(ctx, q, taskID)
}

func (r *subtaskRepository) ListByTasks(ctx context.Context, taskIDs []int64) (map[int64][]models.Subtask, error) {
	out := make(map[int64][]models.Subtask, len(taskIDs))
	if len(taskIDs) == 0 {
		return out, nil
	}
	q := `SELECT id, task_id, title, description, completed FROM subtasks
		  WHERE task_id IN (` + placeholders(1, len(taskIDs)) + `) ORDER BY id`
	list, err := r.query(ctx, q, int64Args(taskIDs)...)
	if err != nil {
		return nil, err
	}
	for _, s := range list {
		out[s.TaskID] = append(out[s.TaskID], s)
	}
	return out, nil
}

func (r *subtaskRepository) Page(ctx context.Context, taskID int64, page models.PageRequest) ([]models.Subtask, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM subtasks WHERE task_id=$1`, taskID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count subtasks: %w", err)
	}

	column, ok := subtaskSortColumns[page.SortBy]
	if !ok {
		column = "id"
	}
	direction := "DESC"
	if page.SortDirection == "asc" {
		direction = "ASC"
	}
	q := fmt.Sprintf(`SELECT id, task_id, title, description, completed FROM subtasks
		WHERE task_id=$1 ORDER BY %s %s, id %s LIMIT $2 OFFSET $3`, column, direction, direction)
	list, err := r.query(ctx, q, taskID, page.Size, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *subtaskRepository) Update(ctx context.Context, s *models.Subtask) error {
	const q = `UPDATE subtasks SET title=$1, description=$2, completed=$3 WHERE id=$4`
	if _, err := r.db.ExecContext(ctx, q, s.Title, s.Description, s.Completed, s.ID); err != nil {
		return fmt.Errorf("update subtask: %w", err)
	}
	return nil
}

func (r *subtaskRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subtasks WHERE id=$1`, id); err != nil {
		return fmt.Errorf("delete subtask: %w", err)
	}
	return nil
}

func (r *subtaskRepository) DeleteByTask(ctx context.Context, taskID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subtasks WHERE task_id=$1`, taskID); err != nil {
		return fmt.Errorf("delete subtasks: %w", err)
	}
	return nil
}

func (r *subtaskRepository) query(ctx context.Context, q string, args ...any) ([]models.Subtask, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list subtasks: %w", err)
	}
	defer rows.Close()

	var res []models.Subtask
	for rows.Next() {
		var s models.Subtask
		if err := rows.Scan(&s.ID, &s.TaskID, &s.Title, &s.Description, &s.Completed); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}
