package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"taskmanager/internal/models"
)

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id int64) (*models.Task, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, task *models.Task) error
	UpdateStatus(ctx context.Context, task *models.Task) error
	SetArchived(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id int64) error

	List(ctx context.Context, filter models.TaskFilter, page models.PageRequest) ([]models.Task, int64, error)
	ListAll(ctx context.Context) ([]models.Task, error)
	ListOverdue(ctx context.Context, today models.Date) ([]models.Task, error)

	ReplaceTags(ctx context.Context, taskID int64, tags []string) error
	TagsFor(ctx context.Context, taskIDs []int64) (map[int64][]string, error)
	DeleteTags(ctx context.Context, taskID int64) error
}

type taskRepository struct {
	db DBTX
}

func NewTaskRepository(db DBTX) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, title, description, status, priority, due_date, archived, created_at, updated_at`

// sortColumns whitelists the columns a listing may be ordered by.
var sortColumns = map[string]string{
	"id":         "id",
	"title":      "title",
	"status":     "status",
	"priority":   "priority",
	"due_date":   "due_date",
	"created_at": "created_at",
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (title, description, status, priority, due_date, archived, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		task.Title, task.Description, task.Status, task.Priority, task.DueDate,
		task.Archived, task.CreatedAt, task.UpdatedAt,
	).Scan(&task.ID)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *taskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

func (r *taskRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM tasks WHERE id = $1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check task: %w", err)
	}
	return true, nil
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks SET
			title=$1, description=$2, status=$3, priority=$4, due_date=$5, updated_at=$6
		WHERE id=$7`
	_, err := r.db.ExecContext(ctx, query,
		task.Title, task.Description, task.Status, task.Priority, task.DueDate, task.UpdatedAt, task.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (r *taskRepository) UpdateStatus(ctx context.Context, task *models.Task) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET status=$1, updated_at=$2 WHERE id=$3`, task.Status, task.UpdatedAt, task.ID)
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	return nil
}

func (r *taskRepository) SetArchived(ctx context.Context, task *models.Task) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET archived=$1, updated_at=$2 WHERE id=$3`, task.Archived, task.UpdatedAt, task.ID)
	if err != nil {
		return fmt.Errorf("archive task: %w", err)
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *taskRepository) List(ctx context.Context, filter models.TaskFilter, page models.PageRequest) ([]models.Task, int64, error) {
	conditions := []string{"archived = FALSE"}
	args := []any{}
	argID := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}
	if filter.Priority != nil {
		conditions = append(conditions, fmt.Sprintf("priority = $%d", argID))
		args = append(args, *filter.Priority)
		argID++
	}
	if filter.DueDate != nil {
		conditions = append(conditions, fmt.Sprintf("due_date = $%d", argID))
		args = append(args, *filter.DueDate)
		argID++
	}
	if filter.Tag != nil {
		conditions = append(conditions, fmt.Sprintf("id IN (SELECT task_id FROM task_tags WHERE tag = $%d)", argID))
		args = append(args, *filter.Tag)
		argID++
	}
	if filter.Query != nil {
		conditions = append(conditions,
			fmt.Sprintf("(LOWER(title) LIKE $%d OR LOWER(description) LIKE $%d)", argID, argID))
		args = append(args, "%"+strings.ToLower(*filter.Query)+"%")
		argID++
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	column, ok := sortColumns[page.SortBy]
	if !ok {
		column = "id"
	}
	direction := "DESC"
	if page.SortDirection == "asc" {
		direction = "ASC"
	}
	query := `SELECT ` + taskColumns + ` FROM tasks` + where +
		fmt.Sprintf(" ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d", column, direction, direction, argID, argID+1)
	args = append(args, page.Size, page.Offset())

	tasks, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (r *taskRepository) ListAll(ctx context.Context) ([]models.Task, error) {
	return r.query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE archived = FALSE ORDER BY id DESC`)
}

func (r *taskRepository) ListOverdue(ctx context.Context, today models.Date) ([]models.Task, error) {
	q := `
SELECT ` + taskColumns + `
FROM tasks
WHERE due_date IS NOT NULL
  AND due_date < $1
  AND status <> $2
  AND archived = FALSE
ORDER BY due_date ASC, id ASC`
	return r.query(ctx, q, today, models.StatusCompleted)
}

func (r *taskRepository) ReplaceTags(ctx context.Context, taskID int64, tags []string) error {
	if err := r.DeleteTags(ctx, taskID); err != nil {
		return err
	}
	for _, tag := range tags {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO task_tags (task_id, tag) VALUES ($1, $2)`, taskID, tag); err != nil {
			return fmt.Errorf("insert tag: %w", err)
		}
	}
	return nil
}

func (r *taskRepository) DeleteTags(ctx context.Context, taskID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM task_tags WHERE task_id = $1`, taskID); err != nil {
		return fmt.Errorf("clear tags: %w", err)
	}
	return nil
}

func (r *taskRepository) TagsFor(ctx context.Context, taskIDs []int64) (map[int64][]string, error) {
	out := make(map[int64][]string, len(taskIDs))
	if len(taskIDs) == 0 {
		return out, nil
	}
	query := `SELECT task_id, tag FROM task_tags WHERE task_id IN (` + placeholders(1, len(taskIDs)) + `) ORDER BY tag`
	rows, err := r.db.QueryContext(ctx, query, int64Args(taskIDs)...)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return nil, err
		}
		out[id] = append(out[id], tag)
	}
	return out, rows.Err()
}

func (r *taskRepository) query(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var t models.Task
	var due nullDate
	if err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &due,
		&t.Archived, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if due.Valid {
		d := due.Date
		t.DueDate = &d
	}
	return &t, nil
}

type nullDate struct {
	Date  models.Date
	Valid bool
}

func (n *nullDate) Scan(src any) error {
	if src == nil {
		n.Date, n.Valid = models.Date{}, false
		return nil
	}
	n.Valid = true
	return n.Date.Scan(src)
}
